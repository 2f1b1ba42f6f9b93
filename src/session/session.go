package session

import (
	"context"
	"sync"
	"time"

	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// -----------------------------------------------------------------------------
// Session
// -----------------------------------------------------------------------------

// Session is the single-entry cache of the reference table. The table is
// fetched on the first Table call and returned as-is afterwards until Reset.
// A failed load is not cached. The mutex only guards state; loads run
// outside it so accessors and Reset never wait on the network.
type Session struct {
	Source interfaces.IReferenceSource
	Logger *logger.Logger

	loads singleflight.Group

	mu        sync.Mutex
	id        string
	startedAt time.Time
	table     *models.MReferenceTable
	onReset   []func(id string)
	onLoad    []func(id string)
}

// -----------------------------------------------------------------------------

func NewSession(source interfaces.IReferenceSource, log *logger.Logger) *Session {
	return &Session{
		Source:    source,
		Logger:    log,
		id:        uuid.NewString(),
		startedAt: time.Now().UTC(),
	}
}

// -----------------------------------------------------------------------------

// Table returns the cached reference table, loading it on first use.
// Concurrent first calls in one session share one fetch. A load overtaken by
// Reset is returned to its callers but not cached in the new session.
func (s *Session) Table(ctx context.Context) (*models.MReferenceTable, error) {
	s.mu.Lock()
	if s.table != nil {
		table := s.table
		s.mu.Unlock()
		return table, nil
	}
	id := s.id
	s.mu.Unlock()

	v, err, _ := s.loads.Do(id, func() (interface{}, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MReferenceTable), nil
}

func (s *Session) load(ctx context.Context, id string) (*models.MReferenceTable, error) {
	// a caller that missed the previous flight finds the table here
	s.mu.Lock()
	if s.table != nil && s.id == id {
		table := s.table
		s.mu.Unlock()
		return table, nil
	}
	s.mu.Unlock()

	table, err := s.Source.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.id != id {
		s.mu.Unlock()
		s.Logger.Info("Session %s ended during load, table not cached", id)
		return table, nil
	}
	s.table = table
	callbacks := append([]func(string){}, s.onLoad...)
	s.mu.Unlock()

	s.Logger.Info("Session %s: reference table cached (%d rows)", id, len(table.Rows))
	for _, fn := range callbacks {
		// a Reset (possibly from a callback) ends delivery for this session
		if s.ID() != id {
			break
		}
		fn(id)
	}
	return table, nil
}

// -----------------------------------------------------------------------------

// Loaded reports whether the table is cached.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table != nil
}

// ID returns the current session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// StartedAt returns when the current session began.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// -----------------------------------------------------------------------------

// OnLoad registers a callback run after the table is first cached in a session.
func (s *Session) OnLoad(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad = append(s.onLoad, fn)
}

// OnReset registers a callback run after every Reset with the new session id.
func (s *Session) OnReset(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = append(s.onReset, fn)
}

// -----------------------------------------------------------------------------

// Reset ends the current session: the cache is dropped and a new id issued.
func (s *Session) Reset() string {
	s.mu.Lock()
	old := s.id
	s.id = uuid.NewString()
	s.startedAt = time.Now().UTC()
	s.table = nil
	id := s.id
	callbacks := append([]func(string){}, s.onReset...)
	s.mu.Unlock()

	s.Logger.Info("Session %s ended, new session %s", old, id)
	for _, fn := range callbacks {
		fn(id)
	}
	return id
}
