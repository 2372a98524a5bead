package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JobState is the numeric state code reported by the CI/CD publish job.
// The order Pending < Running < Successful is what the poller loops on.
type JobState int

const (
	StatePending    JobState = 0
	StateRunning    JobState = 1
	StateSuccessful JobState = 2
	StateFailed     JobState = 3
	StateCanceled   JobState = 4
)

// InProgress reports whether the job has not yet reached a terminal state.
func (s JobState) InProgress() bool {
	return s < StateSuccessful
}

func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSuccessful:
		return "successful"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// UnmarshalJSON accepts the state as a JSON number or a numeric string;
// the API sends "1" rather than 1.
func (s *JobState) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid job state %s: %w", data, err)
	}
	*s = JobState(n)
	return nil
}

// Percent is a completion percentage. Like JobState it may arrive quoted.
type Percent int

func (p *Percent) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(data), `"`))
	if raw == "" || raw == "null" {
		*p = 0
		return nil
	}
	f := json.Number(raw)
	v, err := f.Float64()
	if err != nil {
		return fmt.Errorf("invalid percent_complete %s: %w", data, err)
	}
	*p = Percent(v)
	return nil
}

// Link is a hypermedia reference returned alongside a snapshot.
type Link struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Snapshot is one point-in-time report of a publish job.
type Snapshot struct {
	Links struct {
		Progress Link `json:"progress"`
	} `json:"links"`
	State       JobState `json:"status"`
	Label       string   `json:"status_label"`
	Message     string   `json:"status_message"`
	Detail      string   `json:"status_detail"`
	Error       string   `json:"error"`
	PercentDone Percent  `json:"percent_complete"`
}

// ProgressURL returns the continuation URL for the next poll.
func (s Snapshot) ProgressURL() string {
	return s.Links.Progress.URL
}

// Outcome is the terminal result of a successful publish.
type Outcome struct {
	Message string
	Detail  string
}
