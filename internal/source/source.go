// Package source discovers the version of an application that is
// currently published, either from the instance tables or from the
// application manifest checked into the workspace.
package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/servicenow"
)

// Source returns the current version of the application.
// found is false, with a nil error, when the source has no version.
type Source interface {
	Current(ctx context.Context) (version string, found bool, err error)
}

// ForOperation returns the remote source for op: a lookup by sys_id when
// one is configured, otherwise a scan by scope. baseURL may be empty to
// use the hosted instance URL.
func ForOperation(op config.Operation, baseURL string, transport domain.Transport, logger *log.Logger) Source {
	if baseURL == "" {
		baseURL = servicenow.InstanceURL(op.Instance)
	}
	if op.AppSysID != "" {
		return NewIdentity(transport, baseURL, op.AppSysID, logger)
	}
	return NewScope(transport, baseURL, op.Scope)
}
