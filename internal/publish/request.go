package publish

import (
	"net/url"
	"strings"

	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/servicenow"
)

const publishPath = "/api/sn_cicd/app_repo/publish"

// Query parameter names accepted by the publish endpoint.
const (
	ParamSysID    = "sys_id"
	ParamScope    = "scope"
	ParamVersion  = "version"
	ParamDevNotes = "dev_notes"
)

// Param is one query parameter. Only params with Set are sent.
type Param struct {
	Key   string
	Value string
	Set   bool
}

// Params is an ordered parameter list; encoding keeps insertion order.
type Params []Param

// Add appends key=value, marking it set when value is non-empty.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value, Set: value != ""})
}

func (p Params) has(key string) bool {
	for _, param := range p {
		if param.Key == key && param.Set {
			return true
		}
	}
	return false
}

// Encode renders the set params as key=value pairs joined by "&".
// Values are escaped like encodeURIComponent, so spaces become %20.
func (p Params) Encode() string {
	pairs := make([]string, 0, len(p))
	for _, param := range p {
		if !param.Set {
			continue
		}
		pairs = append(pairs, param.Key+"="+escape(param.Value))
	}
	return strings.Join(pairs, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildURL returns the publish endpoint URL for params. baseURL may be
// empty to target the hosted instance. The instance and exactly one of
// sys_id and scope are required.
func BuildURL(instance, baseURL string, params Params) (string, error) {
	if instance == "" {
		return "", domain.ConfigError("Configuration is incorrect: instance is required")
	}
	if params.has(ParamSysID) == params.has(ParamScope) {
		return "", domain.ConfigError("Configuration is incorrect: exactly one of sys_id and scope is required")
	}
	if baseURL == "" {
		baseURL = servicenow.InstanceURL(instance)
	}
	return strings.TrimSuffix(baseURL, "/") + publishPath + "?" + params.Encode(), nil
}
