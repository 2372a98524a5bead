package source

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/servicenow"
)

const (
	appTable           = "sys_app"
	customizationTable = "sys_app_customization"
)

type appRecord struct {
	Version string `json:"version"`
	Scope   string `json:"scope"`
}

// Identity looks an application up by sys_id in the application table and
// then in the customization table.
type Identity struct {
	transport domain.Transport
	baseURL   string
	sysID     string
	logger    *log.Logger
}

// NewIdentity creates an Identity source. A nil logger uses log.Default().
func NewIdentity(transport domain.Transport, baseURL, sysID string, logger *log.Logger) *Identity {
	if logger == nil {
		logger = log.Default()
	}
	return &Identity{transport: transport, baseURL: baseURL, sysID: sysID, logger: logger}
}

// Current returns the first non-empty version found. A failed request
// counts as "not in this table" and never fails the lookup.
func (s *Identity) Current(ctx context.Context) (string, bool, error) {
	urls := []string{
		fmt.Sprintf("%s/api/now/table/%s/%s?sysparm_fields=version,scope", s.baseURL, appTable, s.sysID),
		fmt.Sprintf("%s/api/now/table/%s/%s?sysparm_fields=version", s.baseURL, customizationTable, s.sysID),
	}
	for _, u := range urls {
		var resp struct {
			Result appRecord `json:"result"`
		}
		if err := s.transport.Get(ctx, u, &resp); err != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			s.logger.Debug("version lookup failed", "url", u, "err", err)
			continue
		}
		if resp.Result.Version != "" {
			return resp.Result.Version, true, nil
		}
	}
	return "", false, nil
}

// Scope scans the application table for the first record in a scope.
type Scope struct {
	transport domain.Transport
	baseURL   string
	scope     string
}

// NewScope creates a Scope source.
func NewScope(transport domain.Transport, baseURL, scope string) *Scope {
	return &Scope{transport: transport, baseURL: baseURL, scope: scope}
}

// Current returns the version of the first record whose scope matches.
// Unlike Identity, a failed request is fatal.
func (s *Scope) Current(ctx context.Context) (string, bool, error) {
	u := fmt.Sprintf("%s/api/now/table/%s?sysparm_fields=version,scope", s.baseURL, appTable)
	var resp struct {
		Result []appRecord `json:"result"`
	}
	if err := s.transport.Get(ctx, u, &resp); err != nil {
		return "", false, domain.TransportError(servicenow.Describe(err), err)
	}
	for _, rec := range resp.Result {
		if rec.Scope == s.scope {
			return rec.Version, rec.Version != "", nil
		}
	}
	return "", false, nil
}
