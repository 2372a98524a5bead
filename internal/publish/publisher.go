// Package publish submits an application to the application repository
// and follows the resulting job to completion.
package publish

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/servicenow"
)

// VersionResolver picks the version to publish.
type VersionResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// JobPoller follows a publish job from its first snapshot.
type JobPoller interface {
	Run(ctx context.Context, first domain.Snapshot) (domain.Outcome, error)
}

// Publisher runs one publish: resolve, submit, poll.
type Publisher struct {
	op        config.Operation
	baseURL   string
	transport domain.Transport
	resolver  VersionResolver
	poller    JobPoller
	logger    *log.Logger
}

// NewPublisher creates a Publisher. baseURL may be empty to target the
// hosted instance. A nil logger uses log.Default().
func NewPublisher(op config.Operation, baseURL string, transport domain.Transport, resolver VersionResolver, poller JobPoller, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{
		op:        op,
		baseURL:   baseURL,
		transport: transport,
		resolver:  resolver,
		poller:    poller,
		logger:    logger,
	}
}

// Params returns the publish query parameters for version in the order
// the endpoint receives them.
func (p *Publisher) Params(version string) Params {
	var params Params
	if p.op.AppSysID != "" {
		params = params.Add(ParamSysID, p.op.AppSysID)
	} else {
		params = params.Add(ParamScope, p.op.Scope)
	}
	params = params.Add(ParamVersion, version)
	return params.Add(ParamDevNotes, p.op.DevNotes)
}

// Publish resolves the version, submits the publish request and waits for
// the job. Every failure is returned as a *domain.Error whose message is
// ready to show to the user.
func (p *Publisher) Publish(ctx context.Context) (domain.Outcome, error) {
	version, err := p.resolver.Resolve(ctx)
	if err != nil {
		return domain.Outcome{}, p.fail(err)
	}

	url, err := BuildURL(p.op.Instance, p.baseURL, p.Params(version))
	if err != nil {
		return domain.Outcome{}, p.fail(err)
	}
	p.logger.Info("submitting publish request", "instance", p.op.Instance, "app", p.op.Identity(), "version", version)

	var resp struct {
		Result domain.Snapshot `json:"result"`
	}
	if err := p.transport.Post(ctx, url, struct{}{}, &resp); err != nil {
		return domain.Outcome{}, p.fail(err)
	}

	outcome, err := p.poller.Run(ctx, resp.Result)
	if err != nil {
		return domain.Outcome{}, p.fail(err)
	}
	return outcome, nil
}

// fail passes domain errors and cancellation through and maps everything
// else through the HTTP status table.
func (p *Publisher) fail(err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) || errors.Is(err, context.Canceled) {
		return err
	}
	return domain.TransportError(servicenow.Describe(err), err)
}
