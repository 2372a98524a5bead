package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/nowpublish/internal/domain"
)

// InfoMsg carries one progress line from the publish run.
type InfoMsg struct{ Text string }

// OutputMsg carries a named step output.
type OutputMsg struct{ Name, Value string }

// SnapshotMsg carries a job snapshot.
type SnapshotMsg struct{ Snapshot domain.Snapshot }

// DoneMsg is sent once the publish run returns.
type DoneMsg struct {
	Outcome domain.Outcome
	Err     error
}

type tickMsg struct{}

const historyLimit = 8

// ProgressModel is the root Bubbletea model shown while a publish runs.
type ProgressModel struct {
	title    string
	cancel   context.CancelFunc
	history  HistoryModel
	rollback string
	next     string
	snapshot *domain.Snapshot
	frame    int
	width    int
	done     bool
	outcome  domain.Outcome
	err      error
}

// NewProgressModel creates the model. cancel is called when the user quits
// before the run finishes; it may be nil.
func NewProgressModel(title string, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{
		title:   title,
		cancel:  cancel,
		history: NewHistoryModel(historyLimit),
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return tickEvery(100 * time.Millisecond)
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles progress messages and key events.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tickEvery(100 * time.Millisecond)

	case InfoMsg:
		m.history = m.history.Append(msg.Text)
		return m, nil

	case OutputMsg:
		switch msg.Name {
		case domain.OutputRollbackVersion:
			m.rollback = msg.Value
		case domain.OutputNewVersion:
			m.next = msg.Value
		}
		return m, nil

	case SnapshotMsg:
		s := msg.Snapshot
		m.snapshot = &s
		return m, nil

	case DoneMsg:
		m.done = true
		m.outcome = msg.Outcome
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.done {
				if m.cancel != nil {
					m.cancel()
				}
				m.done = true
				m.err = context.Canceled
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

// Done reports whether the run has finished or was abandoned.
func (m ProgressModel) Done() bool { return m.done }

// Err returns the run's error once Done.
func (m ProgressModel) Err() error { return m.err }

// View renders the header, versions, job progress and recent lines.
func (m ProgressModel) View() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("nowpublish") + "  " + m.title + "\n")

	if m.next != "" {
		rollback := m.rollback
		if rollback == "" {
			rollback = "--"
		}
		sb.WriteString(fmt.Sprintf("version %s → %s\n", styleDim.Render(rollback), m.next))
	}

	if m.snapshot != nil {
		s := m.snapshot
		sb.WriteString(fmt.Sprintf("%s %s %3d%%  %s\n",
			statusIcon(s.State),
			progressBar(int(s.PercentDone), 30),
			int(s.PercentDone),
			s.Label,
		))
	}

	sb.WriteString("\n" + m.history.View(m.width) + "\n\n")

	switch {
	case m.done && errors.Is(m.err, context.Canceled):
		sb.WriteString(styleError.Render("✗ cancelled") + "\n")
	case m.done && m.err != nil:
		sb.WriteString(styleError.Render("✗ "+m.err.Error()) + "\n")
	case m.done:
		sb.WriteString(styleSuccess.Render("✓ "+firstNonEmpty(m.outcome.Message, "published")) + "\n")
	default:
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		sb.WriteString(styleTitle.Render(frame) + styleDim.Render(" publishing…  q: cancel") + "\n")
	}
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// programSink forwards sink calls to a running program.
type programSink struct {
	p *tea.Program
}

func (s programSink) SetOutput(name, value string) { s.p.Send(OutputMsg{Name: name, Value: value}) }
func (s programSink) Info(msg string)              { s.p.Send(InfoMsg{Text: msg}) }
func (s programSink) Snapshot(snap domain.Snapshot) {
	s.p.Send(SnapshotMsg{Snapshot: snap})
}

// PublishFunc runs a publish reporting through sink.
type PublishFunc func(ctx context.Context, sink domain.Sink) (domain.Outcome, error)

// Run shows the progress view on stderr while publish runs. Quitting the
// view cancels the context passed to publish; Run waits for publish to
// return either way.
func Run(ctx context.Context, title string, publish PublishFunc) (domain.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, cancel), tea.WithOutput(os.Stderr))

	type result struct {
		outcome domain.Outcome
		err     error
	}
	results := make(chan result, 1)
	go func() {
		outcome, err := publish(ctx, programSink{p: p})
		results <- result{outcome: outcome, err: err}
		p.Send(DoneMsg{Outcome: outcome, Err: err})
	}()

	_, runErr := p.Run()
	cancel()
	r := <-results
	if runErr != nil {
		return r.outcome, fmt.Errorf("running progress view: %w", runErr)
	}
	return r.outcome, r.err
}
