package journal

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/tallybox/internal/firmware"
)

// Recorder writes firmware events of one session to a Journal.
type Recorder struct {
	journal   *Journal
	sessionID int64
	onError   func(error)
	now       func() time.Time

	mu  sync.Mutex
	seq int
}

// NewRecorder starts a session and returns a recorder for it. onError, if set,
// receives write failures; recording never blocks the firmware on them.
func NewRecorder(ctx context.Context, j *Journal, source string, onError func(error)) (*Recorder, error) {
	now := time.Now
	id, err := j.StartSession(ctx, source, now())
	if err != nil {
		return nil, err
	}
	return &Recorder{journal: j, sessionID: id, onError: onError, now: now}, nil
}

// SessionID returns the id of the recorded session.
func (r *Recorder) SessionID() int64 {
	return r.sessionID
}

// OnEvent implements firmware.Observer.
func (r *Recorder) OnEvent(ev firmware.Event) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()
	if err := r.journal.Record(context.Background(), r.sessionID, seq, r.now(), ev); err != nil && r.onError != nil {
		r.onError(err)
	}
}

// Close marks the session as ended.
func (r *Recorder) Close(ctx context.Context) error {
	return r.journal.EndSession(ctx, r.sessionID, r.now())
}
