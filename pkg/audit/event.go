// Package audit records every interface check as a JSON-lines audit trail.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/newtron-network/ifcheck/pkg/compare"
	"github.com/newtron-network/ifcheck/pkg/intent"
)

// Event represents one evaluated interface check
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	User       string        `json:"user"`
	Host       string        `json:"host"`
	Filter     string        `json:"filter"`
	Device     string        `json:"device"`
	Diff       bool          `json:"diff"`
	Reason     string        `json:"reason,omitempty"`
	IntentHash string        `json:"intent_hash,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Host      string
	Device    string
	User      string
	Check     string // filter name, e.g. bond_check
	StartTime time.Time
	EndTime   time.Time
	DiffOnly  bool
	PassOnly  bool
	Limit     int
	Offset    int
}

// NewEvent creates a new audit event
func NewEvent(user, host, filter, device string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		User:      user,
		Host:      host,
		Filter:    filter,
		Device:    device,
	}
}

// WithVerdict records the outcome of the check
func (e *Event) WithVerdict(v compare.Verdict) *Event {
	e.Diff = v.Diff
	e.Reason = v.Reason
	return e
}

// WithIntent records the fingerprint of the desired state that was checked
func (e *Event) WithIntent(iface *intent.Interface) *Event {
	if iface != nil {
		e.IntentHash = iface.Hash()
	}
	return e
}

// WithError marks a check that could not be evaluated
func (e *Event) WithError(err error) *Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the check duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}
