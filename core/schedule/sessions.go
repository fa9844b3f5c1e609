package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("schedule session not found")

	nowFunc = time.Now // mockable
)

type (
	// Sessions holds the schedule of each planning session.
	// Mutations of one session are serialized; sessions do not share state.
	// A session left idle for longer than the idle TTL is ended, a zero TTL keeps sessions forever.
	Sessions struct {
		idleTTL  time.Duration
		mu       sync.RWMutex
		sessions map[string]*session
	}

	session struct {
		sync.Mutex
		schedule  *Schedule
		createdAt time.Time
		updatedAt time.Time
		seenAt    time.Time
	}

	// SessionInfo is a read-only copy of a session.
	SessionInfo struct {
		ID        string
		Schedule  *Schedule
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

func NewSessions(idleTTL time.Duration) *Sessions {
	return &Sessions{idleTTL: idleTTL, sessions: make(map[string]*session)}
}

// Create starts a session with an empty schedule.
func (ss *Sessions) Create() SessionInfo {
	now := nowFunc().UTC()
	id := uuid.New().String()
	sess := &session{schedule: New(), createdAt: now, updatedAt: now, seenAt: now}

	ss.mu.Lock()
	ss.sessions[id] = sess
	ss.mu.Unlock()

	return SessionInfo{ID: id, Schedule: sess.schedule.Clone(), CreatedAt: now, UpdatedAt: now}
}

// get returns the live session and marks it as seen; an expired session is ended on the way.
func (ss *Sessions) get(id string) (*session, error) {
	ss.mu.RLock()
	sess, ok := ss.sessions[id]
	ss.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := nowFunc().UTC()
	sess.Lock()
	expired := ss.expired(sess, now)
	if !expired {
		sess.seenAt = now
	}
	sess.Unlock()

	if expired {
		ss.Delete(id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// caller must hold the session lock
func (ss *Sessions) expired(sess *session, now time.Time) bool {
	return ss.idleTTL > 0 && now.Sub(sess.seenAt) > ss.idleTTL
}

func (ss *Sessions) Get(id string) (SessionInfo, error) {
	sess, err := ss.get(id)
	if err != nil {
		return SessionInfo{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.info(id), nil
}

// Update runs fn on a copy of the session schedule and keeps the copy only when fn succeeds.
// No other mutation of that session runs meanwhile.
func (ss *Sessions) Update(id string, fn func(*Schedule) error) (SessionInfo, error) {
	sess, err := ss.get(id)
	if err != nil {
		return SessionInfo{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	draft := sess.schedule.Clone()
	if err := fn(draft); err != nil {
		return SessionInfo{}, err
	}
	sess.schedule = draft
	sess.updatedAt = nowFunc().UTC()
	return sess.info(id), nil
}

// Replace swaps the session schedule for s.
func (ss *Sessions) Replace(id string, s *Schedule) (SessionInfo, error) {
	sess, err := ss.get(id)
	if err != nil {
		return SessionInfo{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	sess.schedule = s.Clone()
	sess.updatedAt = nowFunc().UTC()
	return sess.info(id), nil
}

// Delete ends a session. Deleting an unknown session is a no-op.
func (ss *Sessions) Delete(id string) {
	ss.mu.Lock()
	delete(ss.sessions, id)
	ss.mu.Unlock()
}

// Sweep ends every session idle for longer than the idle TTL and returns how many were ended.
func (ss *Sessions) Sweep() int {
	if ss.idleTTL <= 0 {
		return 0
	}
	now := nowFunc().UTC()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	var n int
	for id, sess := range ss.sessions {
		sess.Lock()
		expired := ss.expired(sess, now)
		sess.Unlock()
		if expired {
			delete(ss.sessions, id)
			n++
		}
	}
	return n
}

// Expire sweeps idle sessions every interval until ctx is done.
func (ss *Sessions) Expire(ctx context.Context, interval time.Duration) {
	if ss.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ss.Sweep()
		}
	}
}

func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// caller must hold the session lock
func (sess *session) info(id string) SessionInfo {
	return SessionInfo{
		ID:        id,
		Schedule:  sess.schedule.Clone(),
		CreatedAt: sess.createdAt,
		UpdatedAt: sess.updatedAt,
	}
}
