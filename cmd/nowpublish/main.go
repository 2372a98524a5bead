package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/waabox/nowpublish/internal/actions"
	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
	"github.com/waabox/nowpublish/internal/git"
	"github.com/waabox/nowpublish/internal/poller"
	"github.com/waabox/nowpublish/internal/publish"
	"github.com/waabox/nowpublish/internal/resolver"
	"github.com/waabox/nowpublish/internal/servicenow"
	"github.com/waabox/nowpublish/internal/source"
	"github.com/waabox/nowpublish/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// reportedError marks an error that was already shown through a sink.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.As(err, new(reportedError)) {
			fmt.Fprintln(os.Stderr, err)
		}
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	envFile     string
	verbose     bool
	interactive bool
	maxPolls    int
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "nowpublish",
		Short: "Publish a ServiceNow application to the application repository",
		Long: `nowpublish resolves the version to publish, submits the application to the
ServiceNow application repository and follows the publish job until it
finishes. Inputs are read the way a GitHub Actions step receives them
(INPUT_* variables), with an optional config file for local runs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file (TOML or YAML)")
	cmd.Flags().StringVar(&opts.envFile, "env", "", "dotenv file to load before reading inputs")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "show a live progress view (ignored in CI)")
	cmd.Flags().IntVar(&opts.maxPolls, "max-polls", 0, "give up after this many status checks (0 = wait for the job)")
	return cmd
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type failer interface {
	domain.Sink
	Fail(msg string)
}

func run(ctx context.Context, opts options) error {
	logger := newLogger(opts.verbose).With("run", uuid.NewString()[:8])

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("loading %s: %w", opts.envFile, err)
		}
	}

	actionSink := actions.NewSink(githubactions.New())
	inCI := os.Getenv("GITHUB_ACTIONS") == "true"
	var sink failer = actions.NewLogSink(logger)
	if inCI {
		sink = actionSink
	}
	fail := func(err error) error {
		if errors.Is(err, context.Canceled) {
			sink.Fail("publish cancelled")
		} else {
			sink.Fail(err.Error())
		}
		return reportedError{err}
	}

	file, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return fail(err)
	}
	rt := actionSink.Runtime()
	if rt.Workspace == "" {
		if repo, err := detectRepository(); err == nil {
			rt.Workspace = repo.Root
			logger.Debug("workspace from git checkout", "root", repo.Root, "origin", repo.RemoteURL)
		}
	}
	op, err := config.Build(actionSink, rt, file)
	if err != nil {
		return fail(err)
	}
	if inCI {
		actionSink.Mask(op.Password)
	}
	logger.Debug("configuration", "instance", op.Instance, "app", op.Identity(), "format", op.Format, "incrementBy", op.IncrementBy)

	interactive := opts.interactive && !inCI
	// The progress view owns the terminal while it runs.
	runLogger := logger
	if interactive {
		runLogger = log.NewWithOptions(io.Discard, log.Options{})
	}

	client := servicenow.NewClient(op.Username, op.Password)
	publishWith := func(ctx context.Context, s domain.Sink) (domain.Outcome, error) {
		remote := source.ForOperation(op, "", client, runLogger)
		local := source.NewManifest(op.Workspace, op.AppSysID, runLogger)
		p := poller.New(client, s, runLogger)
		p.MaxPolls = opts.maxPolls
		return publish.NewPublisher(op, "", client, resolver.New(op, remote, local, s, runLogger), p, runLogger).Publish(ctx)
	}

	start := time.Now()
	var outcome domain.Outcome
	if interactive {
		outcome, err = tui.Run(ctx, op.Instance+" · "+op.Identity(), publishWith)
	} else {
		outcome, err = publishWith(ctx, sink)
	}
	if err != nil {
		return fail(err)
	}
	logger.Info("publish finished", "message", outcome.Message, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func detectRepository() (domain.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return domain.Repository{}, err
	}
	return git.Detect(cwd)
}
