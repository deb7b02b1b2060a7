package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got %q", buf.String())
	}

	New(&buf, true).Debug("spring", "constant", 10.0)
	if !strings.Contains(buf.String(), "constant=10") {
		t.Errorf("expected debug record, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
