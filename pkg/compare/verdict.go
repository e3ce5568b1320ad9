// Package compare decides whether the observed state of a network interface
// matches its desired state.
//
// Every checker is a pure function of a fact snapshot and a desired
// interface: the snapshot is only read, so checks over one snapshot may run
// concurrently. A divergence is reported as a Verdict, not as an error.
package compare

import "fmt"

// Verdict is the outcome of a check. Reason is set only when Diff is true.
type Verdict struct {
	Diff   bool   `json:"diff" yaml:"diff"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Pass returns the verdict for a matching interface.
func Pass() Verdict {
	return Verdict{}
}

// Fail returns a diverging verdict with a formatted reason.
func Fail(format string, args ...interface{}) Verdict {
	return Verdict{Diff: true, Reason: fmt.Sprintf(format, args...)}
}

// String renders the verdict for logs.
func (v Verdict) String() string {
	if !v.Diff {
		return "no diff"
	}
	return "diff: " + v.Reason
}
