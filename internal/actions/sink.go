// Package actions connects a publish run to its host pipeline: step
// inputs, named outputs and progress lines.
package actions

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-githubactions"

	"github.com/waabox/nowpublish/internal/config"
)

// Sink writes outputs and progress through the GitHub Actions toolkit.
// It also serves as the config.Inputs provider.
type Sink struct {
	action *githubactions.Action
}

// NewSink wraps action. Pass githubactions.New() in production.
func NewSink(action *githubactions.Action) *Sink {
	return &Sink{action: action}
}

// GetInput returns the INPUT_* value for name.
func (s *Sink) GetInput(name string) string {
	return s.action.GetInput(name)
}

// Runtime reads the run number and workspace from the action context.
func (s *Sink) Runtime() config.Runtime {
	ctx, err := s.action.Context()
	if err != nil {
		return config.Runtime{}
	}
	rt := config.Runtime{Workspace: ctx.Workspace}
	if ctx.RunNumber > 0 {
		rt.RunNumber = strconv.FormatInt(ctx.RunNumber, 10)
	}
	return rt
}

// Mask hides value in all subsequent log output.
func (s *Sink) Mask(value string) {
	if value != "" {
		s.action.AddMask(value)
	}
}

func (s *Sink) SetOutput(name, value string) {
	s.action.SetOutput(name, value)
}

func (s *Sink) Info(msg string) {
	s.action.Infof("%s", msg)
}

// Fail marks the step as failed with msg. It does not exit.
func (s *Sink) Fail(msg string) {
	s.action.Errorf("%s", msg)
}

// LogSink reports through a charm logger, for runs outside a pipeline.
type LogSink struct {
	logger  *log.Logger
	outputs map[string]string
}

// NewLogSink creates a LogSink. A nil logger uses log.Default().
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger, outputs: map[string]string{}}
}

func (s *LogSink) SetOutput(name, value string) {
	s.outputs[name] = value
	s.logger.Info("output", "name", name, "value", value)
}

func (s *LogSink) Info(msg string) {
	s.logger.Info(msg)
}

func (s *LogSink) Fail(msg string) {
	s.logger.Error(msg)
}

// Output returns a value previously set with SetOutput.
func (s *LogSink) Output(name string) string {
	return s.outputs[name]
}
