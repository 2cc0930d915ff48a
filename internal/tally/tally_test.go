package tally

import (
	"math"
	"testing"
)

func TestIncrementAndReset(t *testing.T) {
	var tl Tally
	presses := []Candidate{A, B, B, D, A, A}
	for _, c := range presses {
		tl.Increment(c)
	}
	got := tl.Snapshot()
	if got != (Counts{A: 3, B: 2, C: 0, D: 1}) {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.Total() != len(presses) {
		t.Fatalf("expected total %d, got %d", len(presses), got.Total())
	}
	tl.Reset()
	if tl.Snapshot() != (Counts{}) {
		t.Fatalf("expected zero counts after reset, got %+v", tl.Snapshot())
	}
	tl.Increment(C)
	if tl.Snapshot() != (Counts{C: 1}) {
		t.Fatalf("expected counting to restart from zero, got %+v", tl.Snapshot())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	var tl Tally
	snap := tl.Snapshot()
	tl.Increment(A)
	if snap.A != 0 {
		t.Fatalf("snapshot changed after increment")
	}
}

func TestIncrementSaturates(t *testing.T) {
	var tl Tally
	tl.counts[B] = math.MaxInt16 - 1
	tl.Increment(B)
	tl.Increment(B)
	if got := tl.Snapshot().B; got != math.MaxInt16 {
		t.Fatalf("expected saturation at %d, got %d", math.MaxInt16, got)
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Candidate
	}{
		{"first maximum wins tie", Counts{A: 3, B: 5, C: 5, D: 1}, B},
		{"all zero", Counts{}, A},
		{"last wins outright", Counts{A: 1, B: 1, C: 1, D: 2}, D},
		{"a holds tie with d", Counts{A: 4, B: 0, C: 2, D: 4}, A},
		{"c alone", Counts{C: 1}, C},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Winner(tt.counts); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseCandidate(t *testing.T) {
	for _, s := range []string{"a", "B", " c ", "D"} {
		if _, err := ParseCandidate(s); err != nil {
			t.Fatalf("expected %q to parse: %v", s, err)
		}
	}
	if _, err := ParseCandidate("e"); err == nil {
		t.Fatalf("expected error for unknown candidate")
	}
	if A.String() != "A" || D.String() != "D" {
		t.Fatalf("unexpected candidate names")
	}
}
