package report

import (
	"errors"
	"testing"
)

func TestMemoryReporter_CollectsInOrder(t *testing.T) {
	rep := NewMemoryReporter()

	rep.Report(FailureFor("a", "first", "", errors.New("one"), false))
	rep.Report(FailureFor("b", "second", "", errors.New("two"), true))
	rep.Report(FailureFor("c", "third", "", errors.New("three"), false))

	failures := rep.Failures()
	if len(failures) != 3 {
		t.Fatalf("len = %d, want 3", len(failures))
	}
	for i, want := range []string{"first", "second", "third"} {
		if failures[i].Handler != want {
			t.Errorf("failures[%d].Handler = %q, want %q", i, failures[i].Handler, want)
		}
	}
	if failures[1].Severity != SeverityException {
		t.Errorf("failures[1].Severity = %q, want %q", failures[1].Severity, SeverityException)
	}
}

func TestMemoryReporter_FailuresReturnsCopy(t *testing.T) {
	rep := NewMemoryReporter()
	rep.Report(FailureFor("a", "first", "", errors.New("one"), false))

	got := rep.Failures()
	got[0].Handler = "mangled"

	if rep.Failures()[0].Handler != "first" {
		t.Error("mutating the returned slice changed internal state")
	}
}

func TestMemoryReporter_Reset(t *testing.T) {
	rep := NewMemoryReporter()
	rep.Report(FailureFor("a", "first", "", errors.New("one"), false))

	rep.Reset()

	if rep.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", rep.Len())
	}
}
