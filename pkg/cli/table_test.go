package cli

import (
	"bytes"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "DEVICE", "FILTER", "STATUS")
	tbl.Row("eth0", "ether_check", "OK")
	tbl.Row("bond0", "bond_check", "DIFF")
	tbl.Flush()

	want := "DEVICE  FILTER       STATUS\n" +
		"------  ------       ------\n" +
		"eth0    ether_check  OK\n" +
		"bond0   bond_check   DIFF\n"
	if buf.String() != want {
		t.Errorf("table output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "HOST")
	tbl.Flush()

	if buf.Len() != 0 {
		t.Errorf("empty table should print nothing, got %q", buf.String())
	}
}

func TestTable_ColoredCells(t *testing.T) {
	withColor(t, true)

	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "STATUS", "DEVICE")
	tbl.Row(Status(false), "eth0")
	tbl.Row(Status(true), "bond0")
	tbl.Flush()

	want := "STATUS  DEVICE\n" +
		"------  ------\n" +
		"\033[32mOK\033[0m      eth0\n" +
		"\033[31mDIFF\033[0m    bond0\n"
	if buf.String() != want {
		t.Errorf("table output = %q, want %q", buf.String(), want)
	}
}

func TestTable_ShortRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "DEVICE", "REASON")
	tbl.Row("eth0")
	tbl.Flush()

	want := "DEVICE  REASON\n------  ------\neth0\n"
	if buf.String() != want {
		t.Errorf("table output = %q, want %q", buf.String(), want)
	}
}

func TestVisibleWidth(t *testing.T) {
	withColor(t, true)

	tests := []struct {
		in   string
		want int
	}{
		{"eth0", 4},
		{Red("DIFF"), 4},
		{Bold("compute-01"), 10},
		{"", 0},
	}
	for _, tt := range tests {
		if got := VisibleWidth(tt.in); got != tt.want {
			t.Errorf("VisibleWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
