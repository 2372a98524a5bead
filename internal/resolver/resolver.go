// Package resolver decides which version number a publish run uses.
package resolver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/source"
	"github.com/waabox/nowpublish/internal/version"
)

// noneVersion is what the instance reports for an application that has
// never been published.
const noneVersion = "none"

// Resolver implements the four version formats. remote reports what the
// instance currently holds; local reads the manifest in the workspace.
type Resolver struct {
	op     config.Operation
	remote source.Source
	local  source.Source
	sink   domain.Sink
	logger *log.Logger
}

// New creates a Resolver. A nil logger uses log.Default().
func New(op config.Operation, remote, local source.Source, sink domain.Sink, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{op: op, remote: remote, local: local, sink: sink, logger: logger}
}

// Resolve returns the version to publish and records the rollback and new
// versions on the sink exactly once.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.op.IncrementBy < 0 {
		return "", domain.ConfigError("incrementBy must be a non-negative integer, got %d", r.op.IncrementBy)
	}

	switch r.op.Format {
	case domain.FormatExact:
		if r.op.Version == "" {
			return "", domain.ConfigError("version is required when versionFormat is exact")
		}
		previous, err := r.previous(ctx)
		if err != nil {
			return "", err
		}
		r.record(previous, r.op.Version)
		return r.op.Version, nil

	case domain.FormatTemplate:
		if r.op.VersionTemplate == "" {
			return "", domain.ConfigError("versionTemplate is required when versionFormat is template")
		}
		if r.op.RunNumber == "" {
			return "", domain.ConfigError("a run number (githubRunNum or GITHUB_RUN_NUMBER) is required when versionFormat is template")
		}
		previous, err := r.previous(ctx)
		if err != nil {
			return "", err
		}
		next := r.op.VersionTemplate + "." + r.op.RunNumber
		r.record(previous, next)
		return next, nil

	case domain.FormatDetect:
		if r.op.AppSysID == "" && r.op.Scope == "" {
			return "", domain.ConfigError("appSysID or scope is required when versionFormat is detect")
		}
		current, found, err := r.local.Current(ctx)
		if err != nil {
			return "", err
		}
		return r.increment(current, found)

	case domain.FormatAutoDetect:
		current, found, err := r.remote.Current(ctx)
		if err != nil {
			return "", err
		}
		if current == noneVersion {
			found = false
		}
		return r.increment(current, found)

	default:
		return "", domain.ConfigError("versionFormat is incorrect: %q", r.op.Format)
	}
}

// previous returns the version currently on the instance, or "" if none.
func (r *Resolver) previous(ctx context.Context) (string, error) {
	v, found, err := r.remote.Current(ctx)
	if err != nil || !found {
		return "", err
	}
	return v, nil
}

func (r *Resolver) increment(current string, found bool) (string, error) {
	if !found || current == "" {
		return "", domain.VersionNotFound()
	}
	r.sink.Info("Current version is " + current)

	next, err := version.Increment(current, r.op.IncrementBy)
	if err != nil {
		return "", &domain.Error{
			Kind:    domain.KindVersionNotFound,
			Message: "Current version " + current + " is not a dot-separated numeric version",
			Err:     err,
		}
	}
	r.logger.Debug("incremented version", "from", current, "to", next, "by", r.op.IncrementBy)
	r.record(current, next)
	return next, nil
}

func (r *Resolver) record(previous, next string) {
	r.sink.SetOutput(domain.OutputRollbackVersion, previous)
	r.sink.SetOutput(domain.OutputNewVersion, next)
}
