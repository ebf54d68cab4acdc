package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Table(&buf, []string{"Civ", "Available"}, [][]string{
		{"Britons", "yes"},
		{"Goths", "no"},
	})

	want := "  Civ      Available\n" +
		"  ───────  ─────────\n" +
		"  Britons  yes\n" +
		"  Goths    no\n"
	if got := buf.String(); got != want {
		t.Errorf("Table =\n%q\nwant\n%q", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"a"}, nil)
	if buf.Len() != 0 {
		t.Errorf("empty table printed %q", buf.String())
	}
}

func TestVisibleWidthIgnoresColor(t *testing.T) {
	if got := visibleWidth("\x1b[32m✓\x1b[0m"); got != 1 {
		t.Errorf("visibleWidth = %d, want 1", got)
	}
}
