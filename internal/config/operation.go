package config

import (
	"strconv"
	"strings"

	"github.com/waabox/nowpublish/internal/domain"
)

// Step input names.
const (
	InputUsername        = "username"
	InputPassword        = "password"
	InputInstance        = "instance"
	InputAppSysID        = "appSysID"
	InputScope           = "scope"
	InputVersionFormat   = "versionFormat"
	InputVersion         = "version"
	InputVersionTemplate = "versionTemplate"
	InputDevNotes        = "devNotes"
	InputIncrementBy     = "incrementBy"
	InputRunNumber       = "githubRunNum"
	InputWorkspace       = "workspace"
)

// Inputs supplies named step inputs. A missing input is "".
type Inputs interface {
	GetInput(name string) string
}

// Runtime carries values the pipeline itself provides.
type Runtime struct {
	RunNumber string
	Workspace string
}

// Operation is the immutable configuration of one publish run.
type Operation struct {
	Instance        string
	Username        string
	Password        string
	AppSysID        string
	Scope           string
	Format          domain.VersionFormat
	Version         string
	VersionTemplate string
	DevNotes        string
	IncrementBy     int
	RunNumber       string
	Workspace       string
}

// Build merges inputs over runtime values over the file and validates the
// result. Every failure is a configuration error.
func Build(in Inputs, rt Runtime, file File) (Operation, error) {
	pick := func(name string, fallbacks ...string) string {
		if v := strings.TrimSpace(in.GetInput(name)); v != "" {
			return v
		}
		for _, f := range fallbacks {
			if f != "" {
				return f
			}
		}
		return ""
	}

	op := Operation{
		Instance:        pick(InputInstance, file.Instance.Name),
		Username:        pick(InputUsername, file.Instance.Username),
		Password:        pick(InputPassword, file.Instance.Password),
		AppSysID:        pick(InputAppSysID, file.App.SysID),
		Scope:           pick(InputScope, file.App.Scope),
		Version:         pick(InputVersion),
		VersionTemplate: pick(InputVersionTemplate, file.App.VersionTemplate),
		DevNotes:        pick(InputDevNotes),
		RunNumber:       pick(InputRunNumber, rt.RunNumber),
		Workspace:       pick(InputWorkspace, rt.Workspace, file.App.Workspace),
		IncrementBy:     file.App.IncrementBy,
	}

	if raw := pick(InputIncrementBy); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Operation{}, domain.ConfigError("incrementBy must be an integer, got %q", raw)
		}
		op.IncrementBy = n
	}

	rawFormat := pick(InputVersionFormat, file.App.VersionFormat)
	if rawFormat == "" {
		return Operation{}, domain.ConfigError("versionFormat is required (exact, template, detect or autodetect)")
	}
	format, err := domain.ParseVersionFormat(rawFormat)
	if err != nil {
		return Operation{}, domain.ConfigError("versionFormat is incorrect: %q is not one of exact, template, detect, autodetect", rawFormat)
	}
	op.Format = format

	if err := op.Validate(); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// Validate checks the inputs every strategy needs. Strategy-specific inputs
// are checked by the resolver.
func (o Operation) Validate() error {
	switch {
	case o.Username == "" || o.Password == "":
		return domain.ConfigError("username and password are required")
	case o.Instance == "":
		return domain.ConfigError("instance is required")
	case o.AppSysID != "" && o.Scope != "":
		return domain.ConfigError("set either appSysID or scope, not both")
	case o.AppSysID == "" && o.Scope == "":
		return domain.ConfigError("either appSysID or scope is required")
	}
	return nil
}

// Identity returns the application sys_id, or the scope when no sys_id is set.
func (o Operation) Identity() string {
	if o.AppSysID != "" {
		return o.AppSysID
	}
	return o.Scope
}
