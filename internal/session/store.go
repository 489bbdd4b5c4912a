package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testlens-hq/testlens/pkg/model"
)

var (
	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")
	// ErrPlanNotFound indicates the session has no plan
	ErrPlanNotFound = errors.New("plan not found")
	// ErrMethodNotFound indicates the session does not track the method
	ErrMethodNotFound = errors.New("method not found in session")
)

// Store owns every live session and its plan behind one lock, so a
// next-method pick and the completion that follows observe a
// consistent untested set. Every accessor returns a deep copy:
// callers encode and inspect snapshots while the originals keep
// mutating under the lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	plans    map[string]*model.Plan
	ttl      time.Duration
	stop     chan struct{}
	onExpire func(sessionID string)
}

// Config configures the session store.
type Config struct {
	TTL             time.Duration // idle time before a session is swept
	CleanupInterval time.Duration
}

// NewStore creates a session store and starts its cleanup sweep.
func NewStore(cfg Config) *Store {
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	s := &Store{
		sessions: make(map[string]*model.Session),
		plans:    make(map[string]*model.Plan),
		ttl:      cfg.TTL,
		stop:     make(chan struct{}),
	}

	go s.cleanup(cfg.CleanupInterval)

	return s
}

// Close stops the cleanup sweep.
func (s *Store) Close() {
	close(s.stop)
}

// OnExpire registers a callback invoked with the id of every session
// the cleanup sweep removes. The callback runs outside the store lock.
func (s *Store) OnExpire(fn func(sessionID string)) {
	s.mu.Lock()
	s.onExpire = fn
	s.mu.Unlock()
}

// Create registers a new session over one class and derives its plan.
func (s *Store) Create(filePath, className, testType, outputPath string, methods []*model.MethodTestStatus) (*model.Session, *model.Plan) {
	now := time.Now().UTC()
	sess := &model.Session{
		ID:           uuid.NewString(),
		FilePath:     filePath,
		ClassName:    className,
		TestType:     testType,
		OutputPath:   outputPath,
		Methods:      methods,
		Completed:    make([]string, 0),
		CreatedAt:    now,
		LastActivity: now,
	}
	plan := BuildPlan(sess.ID, methods)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.plans[sess.ID] = plan
	s.mu.Unlock()

	log.Debug().
		Str("session_id", sess.ID).
		Str("class", className).
		Int("methods", len(methods)).
		Msg("session created")

	return sess.Clone(), plan.Clone()
}

// Get retrieves a session by ID and touches its activity timestamp.
func (s *Store) Get(sessionID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastActivity = time.Now().UTC()
	return sess.Clone(), nil
}

// GetPlan retrieves the plan derived for a session.
func (s *Store) GetPlan(sessionID string) (*model.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[sessionID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan.Clone(), nil
}

// Next picks the method to test next. The pick and the untested-set
// read happen under one lock so concurrent callers never receive the
// same method twice.
func (s *Store) Next(sessionID string) (*model.NextMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastActivity = time.Now().UTC()

	m := pickNext(sess)
	if m == nil {
		return &model.NextMethod{Done: true}, nil
	}

	next := &model.NextMethod{
		Method:    m.Clone(),
		Rationale: nextRationale(m),
		Remaining: len(sess.Methods) - len(sess.Completed),
	}
	if plan, ok := s.plans[sessionID]; ok {
		next.Phase = plan.PhaseFor(m.Method).Clone()
	}
	return next, nil
}

// Complete marks a method tested, records its artifact path, and
// advances the plan. Completing the same method twice is a no-op for
// the completed set.
func (s *Store) Complete(sessionID, method, testPath string) (*model.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	status := sess.Status(method)
	if status == nil {
		return nil, ErrMethodNotFound
	}

	now := time.Now().UTC()
	sess.LastActivity = now
	status.HasTests = true
	status.TestPath = testPath
	status.UpdatedAt = now
	if !sess.IsCompleted(method) {
		sess.Completed = append(sess.Completed, method)
	}

	plan := s.plans[sessionID]
	if plan != nil {
		advancePlan(plan, sess)
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("method", method).
		Msg("method completed")

	return buildProgress(sess, plan), nil
}

// Progress reports how far a session has advanced.
func (s *Store) Progress(sessionID string) (*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return buildProgress(sess, s.plans[sessionID]), nil
}

// Delete removes a session and its plan.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		delete(s.plans, sessionID)
		log.Debug().Str("session_id", sessionID).Msg("session deleted")
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sweep(time.Now()); n > 0 {
				log.Debug().Int("removed", n).Msg("idle sessions swept")
			}
		case <-s.stop:
			return
		}
	}
}

// sweep removes every session idle past the retention window, along
// with its plan.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	expired := make([]string, 0)
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.ttl {
			delete(s.sessions, id)
			delete(s.plans, id)
			expired = append(expired, id)
		}
	}
	onExpire := s.onExpire
	s.mu.Unlock()

	if onExpire != nil {
		for _, id := range expired {
			onExpire(id)
		}
	}
	return len(expired)
}

// advancePlan marks phases whose methods are all completed and moves
// the current-phase pointer past them.
func advancePlan(plan *model.Plan, sess *model.Session) {
	for i := range plan.Phases {
		phase := &plan.Phases[i]
		if phase.Completed {
			continue
		}
		done := true
		for _, m := range phase.Methods {
			if !sess.IsCompleted(m) {
				done = false
				break
			}
		}
		phase.Completed = done
	}
	for plan.CurrentPhase < len(plan.Phases) && plan.Phases[plan.CurrentPhase].Completed {
		plan.CurrentPhase++
	}
}

func buildProgress(sess *model.Session, plan *model.Plan) *model.Progress {
	p := &model.Progress{
		SessionID: sess.ID,
		Completed: len(sess.Completed),
		Total:     len(sess.Methods),
		AllDone:   sess.AllDone(),
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	if plan != nil && len(plan.Phases) > 0 {
		idx := plan.CurrentPhase
		if idx >= len(plan.Phases) {
			idx = len(plan.Phases) - 1
		}
		p.CurrentPhase = plan.Phases[idx].Number
		for _, ph := range plan.Phases {
			if ph.Completed {
				p.PhasesCompleted++
			}
		}
	}
	return p
}
