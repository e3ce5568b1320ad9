package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/newtron-network/ifcheck/pkg/report"
)

func TestHostLabel(t *testing.T) {
	tests := []struct {
		name string
		app  appState
		want string
	}{
		{"host", appState{host: "compute-01", factsFile: "/tmp/facts.json"}, "compute-01"},
		{"facts file", appState{factsFile: "/tmp/facts/compute-02.json"}, "compute-02.json"},
		{"neither", appState{}, "localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.app.hostLabel(); got != tt.want {
				t.Errorf("hostLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSettingsOrHelp(t *testing.T) {
	tests := []struct {
		cmd  string
		want bool
	}{
		{"settings", true},
		{"version", true},
		{"check", false},
		{"audit", false},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("Find(%s): %v", tt.cmd, err)
		}
		if got := isSettingsOrHelp(cmd); got != tt.want {
			t.Errorf("isSettingsOrHelp(%s) = %v, want %v", tt.cmd, got, tt.want)
		}
	}

	set, _, err := rootCmd.Find([]string{"settings", "set"})
	if err != nil {
		t.Fatal(err)
	}
	if !isSettingsOrHelp(set) {
		t.Error("settings subcommands skip fact setup")
	}
}

func TestReadInput(t *testing.T) {
	data, err := readInput(strings.NewReader("device: eth0\n"), "-")
	if err != nil || string(data) != "device: eth0\n" {
		t.Errorf("readInput(-) = %q, %v", data, err)
	}
	if _, err := readInput(nil, "/nonexistent/iface.yml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteReportsJSON(t *testing.T) {
	reports := []*report.Report{{Host: "c1"}}

	var buf bytes.Buffer
	if err := writeReportsJSON(&buf, reports, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("single report should encode as an object: %s", buf.String())
	}

	buf.Reset()
	if err := writeReportsJSON(&buf, reports, true); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "[") {
		t.Errorf("--all-hosts should encode a list: %s", buf.String())
	}
}

func TestAnyDiff(t *testing.T) {
	if anyDiff([]*report.Report{{Host: "a"}, {Host: "b"}}) {
		t.Error("anyDiff with clean reports = true")
	}
	if !anyDiff([]*report.Report{{Host: "a"}, {Host: "b", Diff: true}}) {
		t.Error("anyDiff with a diverged report = false")
	}
}

func TestExitError(t *testing.T) {
	err := &exitError{code: diffExitCode}
	if err.Error() != "exit status 2" {
		t.Errorf("Error() = %q", err.Error())
	}
}
