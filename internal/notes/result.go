package notes

import (
	"encoding/json"
	"fmt"
)

// Status is the phase of a load.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status written by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "pending":
		*s = StatusPending
	case "ready":
		*s = StatusReady
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown status %q", name)
	}
	return nil
}

// Result is exactly one of Pending, Ready(text) or Failed. A failed result
// carries no text: the viewer shows an empty page, never the last good one.
type Result struct {
	Status Status `json:"status"`
	Text   string `json:"text,omitempty"`
	Err    error  `json:"-"`
}

// Pending returns the result of a load still in flight.
func Pending() Result { return Result{Status: StatusPending} }

// Ready returns a successful result holding the full document.
func Ready(text string) Result { return Result{Status: StatusReady, Text: text} }

// Failed returns a failed result. err is kept for logging only.
func Failed(err error) Result { return Result{Status: StatusFailed, Err: err} }

// Body is the text to display: the document when ready, empty otherwise.
func (r Result) Body() string {
	if r.Status != StatusReady {
		return ""
	}
	return r.Text
}
