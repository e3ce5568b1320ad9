package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/newtron-network/ifcheck/pkg/compare"
	"github.com/newtron-network/ifcheck/pkg/intent"
)

func TestEvent_New(t *testing.T) {
	event := NewEvent("alice", "compute-01", "bond_check", "bond0")

	if event.User != "alice" {
		t.Errorf("User = %q, want %q", event.User, "alice")
	}
	if event.Host != "compute-01" {
		t.Errorf("Host = %q, want %q", event.Host, "compute-01")
	}
	if event.Filter != "bond_check" || event.Device != "bond0" {
		t.Errorf("Filter/Device = %q/%q", event.Filter, event.Device)
	}
	if _, err := uuid.Parse(event.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", event.ID, err)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestEvent_Chaining(t *testing.T) {
	iface := &intent.Interface{Device: "bond0", BondSlaves: []string{"eth1"}}
	event := NewEvent("alice", "compute-01", "bond_check", "bond0").
		WithVerdict(compare.Fail("Bond interface bond0 has missing slaves: eth1")).
		WithIntent(iface).
		WithDuration(time.Millisecond)

	if !event.Diff {
		t.Error("Diff should be true")
	}
	if event.Reason != "Bond interface bond0 has missing slaves: eth1" {
		t.Errorf("Reason = %q", event.Reason)
	}
	if event.IntentHash != iface.Hash() {
		t.Errorf("IntentHash = %q, want %q", event.IntentHash, iface.Hash())
	}
	if event.Duration != time.Millisecond {
		t.Errorf("Duration = %v", event.Duration)
	}

	passed := NewEvent("alice", "compute-01", "ether_check", "eth0").WithVerdict(compare.Pass()).WithIntent(nil)
	if passed.Diff || passed.Reason != "" || passed.IntentHash != "" {
		t.Errorf("passing event = %+v", passed)
	}
}

func TestEvent_WithError(t *testing.T) {
	event := NewEvent("alice", "compute-01", "ether_check", "eth0").WithError(errors.New("facts not found"))
	if event.Error != "facts not found" {
		t.Errorf("Error = %q", event.Error)
	}
	if NewEvent("a", "b", "c", "d").WithError(nil).Error != "" {
		t.Error("Error should be empty with nil error")
	}
}

func newTestLogger(t *testing.T) *FileLogger {
	t.Helper()
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "audit.log"), RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestFileLogger_Basic(t *testing.T) {
	logger := newTestLogger(t)

	event := NewEvent("alice", "compute-01", "ether_check", "eth0").WithVerdict(compare.Pass())
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].ID != event.ID {
		t.Errorf("ID = %q, want %q", events[0].ID, event.ID)
	}
	if events[0].Device != "eth0" || events[0].Diff {
		t.Errorf("event = %+v", events[0])
	}
}

func TestFileLogger_QueryFilters(t *testing.T) {
	logger := newTestLogger(t)

	events := []*Event{
		NewEvent("alice", "compute-01", "ether_check", "eth0").WithVerdict(compare.Pass()),
		NewEvent("bob", "compute-01", "bond_check", "bond0").WithVerdict(compare.Fail("Bond interface bond0 has incorrect miimon")),
		NewEvent("alice", "compute-02", "ether_check", "eth0").WithVerdict(compare.Fail("Interface eth0 is not active")),
		NewEvent("charlie", "compute-02", "bridge_check", "br0").WithVerdict(compare.Pass()),
	}
	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"by user", Filter{User: "alice"}, 2},
		{"by host", Filter{Host: "compute-01"}, 2},
		{"by device", Filter{Device: "eth0"}, 2},
		{"by filter name", Filter{Check: "bond_check"}, 1},
		{"diff only", Filter{DiffOnly: true}, 2},
		{"pass only", Filter{PassOnly: true}, 2},
		{"host and diff", Filter{Host: "compute-02", DiffOnly: true}, 1},
		{"limit", Filter{Limit: 3}, 3},
		{"offset", Filter{Offset: 3}, 1},
		{"offset past end", Filter{Offset: 9}, 0},
		{"time window", Filter{StartTime: time.Now().Add(-time.Hour), EndTime: time.Now().Add(time.Hour)}, 4},
		{"future", Filter{StartTime: time.Now().Add(time.Hour)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := logger.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(results) != tt.want {
				t.Errorf("Query(%+v) returned %d events, want %d", tt.filter, len(results), tt.want)
			}
		})
	}
}

func TestFileLogger_SkipsMalformedLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.log")
	if err := os.WriteFile(logPath, []byte("{not json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	logger, err := NewFileLogger(logPath, RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Log(NewEvent("alice", "compute-01", "ether_check", "eth0"))
	logger.Log(NewEvent("alice", "compute-01", "ether_check", "eth1"))

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 events, got %d", len(results))
	}
}

func TestFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "audit.log")
	logger, err := NewFileLogger(logPath, RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger should create directories: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestFileLogger_QueryNonExistent(t *testing.T) {
	logger := newTestLogger(t)

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Errorf("Query on non-existent should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 events, got %d", len(results))
	}
}

func TestFileLogger_Rotate(t *testing.T) {
	logger := newTestLogger(t)

	logger.Log(NewEvent("alice", "compute-01", "ether_check", "eth0"))
	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	logger.Log(NewEvent("alice", "compute-01", "ether_check", "eth1"))

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 || results[0].Device != "eth1" {
		t.Errorf("live file should hold only the newest event, got %d", len(results))
	}

	entries, err := os.ReadDir(filepath.Dir(logger.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected live file and one backup, got %d files", len(entries))
	}
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)

	if err := Log(NewEvent("test", "test", "test", "test")); err != nil {
		t.Errorf("Log with nil default should not error: %v", err)
	}
	results, err := Query(Filter{})
	if err != nil {
		t.Errorf("Query with nil default should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}

	logger := newTestLogger(t)
	SetDefaultLogger(logger)
	defer SetDefaultLogger(nil)

	if DefaultLogger() != logger {
		t.Error("DefaultLogger() should return the configured logger")
	}
	if err := Log(NewEvent("alice", "compute-01", "ether_check", "eth0")); err != nil {
		t.Errorf("Log failed: %v", err)
	}
	results, err = Query(Filter{})
	if err != nil {
		t.Errorf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}
