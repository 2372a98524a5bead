package tui

import (
	"strings"
)

// HistoryModel is an immutable, bounded list of progress lines.
type HistoryModel struct {
	lines []string
	limit int
}

// NewHistoryModel creates a history keeping at most limit lines.
func NewHistoryModel(limit int) HistoryModel {
	return HistoryModel{limit: limit}
}

// Append returns a new model with line added, dropping the oldest line
// when the limit is reached. Repeats of the last line are ignored.
func (m HistoryModel) Append(line string) HistoryModel {
	if line == "" || (len(m.lines) > 0 && m.lines[len(m.lines)-1] == line) {
		return m
	}
	lines := make([]string, 0, len(m.lines)+1)
	lines = append(lines, m.lines...)
	lines = append(lines, line)
	if m.limit > 0 && len(lines) > m.limit {
		lines = lines[len(lines)-m.limit:]
	}
	m.lines = lines
	return m
}

// Lines returns the retained lines, oldest first.
func (m HistoryModel) Lines() []string {
	return m.lines
}

// View renders the history, one line per entry.
func (m HistoryModel) View(width int) string {
	if len(m.lines) == 0 {
		return styleDim.Render("Waiting for the first status update…")
	}
	var sb strings.Builder
	for _, l := range m.lines {
		if width > 4 {
			l = truncate(l, width-2)
		}
		sb.WriteString(styleDim.Render("› ") + l + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
