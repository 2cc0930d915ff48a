// Package tally holds the four per-candidate vote counters.
package tally

import (
	"fmt"
	"math"
	"strings"
)

// Candidate identifies one of the four vote buttons.
type Candidate uint8

const (
	A Candidate = iota
	B
	C
	D
)

// Candidates lists every candidate in priority order.
var Candidates = []Candidate{A, B, C, D}

func (c Candidate) String() string {
	if c > D {
		return fmt.Sprintf("Candidate(%d)", uint8(c))
	}
	return string(rune('A' + c))
}

// ParseCandidate maps a letter (any case) to a candidate.
func ParseCandidate(s string) (Candidate, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return A, nil
	case "B":
		return B, nil
	case "C":
		return C, nil
	case "D":
		return D, nil
	}
	return 0, fmt.Errorf("unknown candidate %q", s)
}

// Counts is a read-only copy of the four counters.
type Counts struct {
	A, B, C, D int16
}

// Get returns the count for a candidate.
func (c Counts) Get(cand Candidate) int16 {
	switch cand {
	case A:
		return c.A
	case B:
		return c.B
	case C:
		return c.C
	case D:
		return c.D
	}
	return 0
}

// Total returns the sum of all four counters.
func (c Counts) Total() int {
	return int(c.A) + int(c.B) + int(c.C) + int(c.D)
}

// Tally is the mutable counter state. Counters use the device's 16-bit width
// and saturate at math.MaxInt16 instead of wrapping.
type Tally struct {
	counts [4]int16
}

// Increment adds one vote for cand.
func (t *Tally) Increment(cand Candidate) {
	if cand > D {
		return
	}
	if t.counts[cand] == math.MaxInt16 {
		return
	}
	t.counts[cand]++
}

// Reset zeroes all four counters.
func (t *Tally) Reset() {
	t.counts = [4]int16{}
}

// Snapshot returns the current counts.
func (t *Tally) Snapshot() Counts {
	return Counts{A: t.counts[A], B: t.counts[B], C: t.counts[C], D: t.counts[D]}
}

// Winner scans A, B, C, D in order and returns the first candidate holding
// the maximum. A later equal count never displaces an earlier one.
func Winner(c Counts) Candidate {
	winner := A
	best := c.A
	for _, cand := range Candidates[1:] {
		if v := c.Get(cand); v > best {
			best = v
			winner = cand
		}
	}
	return winner
}
