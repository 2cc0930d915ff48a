package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tallybox/internal/firmware"
	"github.com/verte-zerg/tallybox/internal/tally"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}

func TestRecordAndListEvents(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	start := time.Unix(1000, 0).UTC()
	id, err := j.StartSession(ctx, "panel", start)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	events := []firmware.Event{
		{Kind: firmware.EventVote, Candidate: tally.B, Mode: firmware.ShowWinner, Counts: tally.Counts{B: 1}},
		{Kind: firmware.EventShowWinner, Mode: firmware.ShowCounts, Counts: tally.Counts{B: 1}},
	}
	for i, ev := range events {
		if err := j.Record(ctx, id, i+1, start.Add(time.Duration(i)*time.Second), ev); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	entries, err := j.ListEvents(ctx, id)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Kind != firmware.EventVote || entries[0].Candidate == nil || *entries[0].Candidate != tally.B {
		t.Fatalf("unexpected vote entry %+v", entries[0])
	}
	if entries[1].Candidate != nil {
		t.Fatalf("expected no candidate on reset entry")
	}
	if entries[1].Mode != firmware.ShowCounts || entries[1].Counts != (tally.Counts{B: 1}) {
		t.Fatalf("unexpected reset entry %+v", entries[1])
	}
	if !entries[1].At.Equal(start.Add(time.Second)) {
		t.Fatalf("unexpected timestamp %v", entries[1].At)
	}
}

func TestListSessionsLimitAndCounts(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := j.StartSession(ctx, "script", time.Unix(int64(i)*60, 0))
		if err != nil {
			t.Fatalf("start session: %v", err)
		}
		ids = append(ids, id)
	}
	if err := j.Record(ctx, ids[2], 1, time.Unix(200, 0), firmware.Event{Kind: firmware.EventVote}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := j.EndSession(ctx, ids[2], time.Unix(300, 0)); err != nil {
		t.Fatalf("end session: %v", err)
	}

	sessions, err := j.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != ids[1] || sessions[1].ID != ids[2] {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	if sessions[1].Events != 1 || sessions[1].EndedAt == nil {
		t.Fatalf("expected ended session with one event, got %+v", sessions[1])
	}
	if sessions[0].EndedAt != nil {
		t.Fatalf("expected open session")
	}

	all, err := j.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("list all sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
}

func TestUnknownSession(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	if _, err := j.ListEvents(ctx, 42); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
	if err := j.EndSession(ctx, 42, time.Now()); err == nil {
		t.Fatalf("expected error ending unknown session")
	}
}

func TestRecorderNumbersEvents(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	var errs []error
	rec, err := NewRecorder(ctx, j, "panel", func(err error) { errs = append(errs, err) })
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.OnEvent(firmware.Event{Kind: firmware.EventVote, Candidate: tally.A, Counts: tally.Counts{A: 1}})
	rec.OnEvent(firmware.Event{Kind: firmware.EventVote, Candidate: tally.A, Counts: tally.Counts{A: 2}})
	if err := rec.Close(ctx); err != nil {
		t.Fatalf("close recorder: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected record errors: %v", errs)
	}
	entries, err := j.ListEvents(ctx, rec.SessionID())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(entries) != 2 || entries[0].Seq != 1 || entries[1].Seq != 2 || entries[1].Counts.A != 2 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
