package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"index-dashboard/src/logger"
	"index-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (c *countingSource) Load(ctx context.Context) (*models.MReferenceTable, error) {
	c.calls.Add(1)
	if c.fail.Load() {
		return nil, errors.New("unreachable")
	}
	return &models.MReferenceTable{Rows: []models.MReferenceRow{{Symbol: "AAA", Sector: "Energy"}}}, nil
}

// slowSource blocks each Load until release is closed.
type slowSource struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newSlowSource() *slowSource {
	return &slowSource{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (s *slowSource) Load(ctx context.Context) (*models.MReferenceTable, error) {
	s.calls.Add(1)
	s.started <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &models.MReferenceTable{Rows: []models.MReferenceRow{{Symbol: "AAA", Sector: "Energy"}}}, nil
}

func quietLogger() *logger.Logger {
	l := logger.NewLogger(nil, "test")
	l.SetOutput(io.Discard)
	return l
}

func TestSession_TableIsCached(t *testing.T) {
	src := &countingSource{}
	s := NewSession(src, quietLogger())
	assert.False(t, s.Loaded())

	first, err := s.Table(context.Background())
	require.NoError(t, err)
	second, err := s.Table(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, s.Loaded())
}

func TestSession_ConcurrentFirstLoad(t *testing.T) {
	src := &countingSource{}
	s := NewSession(src, quietLogger())

	var wg sync.WaitGroup
	tables := make([]*models.MReferenceTable, 16)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], _ = s.Table(context.Background())
		}(i)
	}
	wg.Wait()

	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestSession_FailureNotCached(t *testing.T) {
	src := &countingSource{}
	src.fail.Store(true)
	s := NewSession(src, quietLogger())

	_, err := s.Table(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loaded())

	src.fail.Store(false)
	_, err = s.Table(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestSession_Reset(t *testing.T) {
	src := &countingSource{}
	s := NewSession(src, quietLogger())

	var notified string
	s.OnReset(func(id string) { notified = id })

	before, _ := s.Table(context.Background())
	oldID := s.ID()

	newID := s.Reset()
	assert.NotEqual(t, oldID, newID)
	assert.Equal(t, newID, notified)
	assert.False(t, s.Loaded())

	after, _ := s.Table(context.Background())
	assert.NotSame(t, before, after)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestSession_OnLoadRunsOncePerSession(t *testing.T) {
	s := NewSession(&countingSource{}, quietLogger())

	var loads []string
	s.OnLoad(func(id string) { loads = append(loads, id) })

	_, _ = s.Table(context.Background())
	_, _ = s.Table(context.Background())
	require.Len(t, loads, 1)
	assert.Equal(t, s.ID(), loads[0])

	s.Reset()
	_, _ = s.Table(context.Background())
	require.Len(t, loads, 2)
	assert.Equal(t, s.ID(), loads[1])
}

func TestSession_AccessorsDoNotWaitForLoad(t *testing.T) {
	src := newSlowSource()
	s := NewSession(src, quietLogger())
	defer close(src.release)

	go func() { _, _ = s.Table(context.Background()) }()
	<-src.started

	done := make(chan struct{})
	go func() {
		_ = s.ID()
		_ = s.Loaded()
		_ = s.StartedAt()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("session accessors blocked while the reference load was in flight")
	}
	assert.False(t, s.Loaded())
}

func TestSession_ResetDuringLoad(t *testing.T) {
	src := newSlowSource()
	s := NewSession(src, quietLogger())

	var loads atomic.Int32
	s.OnLoad(func(string) { loads.Add(1) })

	result := make(chan *models.MReferenceTable, 1)
	go func() {
		table, _ := s.Table(context.Background())
		result <- table
	}()
	<-src.started

	resetDone := make(chan string)
	go func() { resetDone <- s.Reset() }()
	var newID string
	select {
	case newID = <-resetDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Reset blocked while the reference load was in flight")
	}

	close(src.release)
	assert.NotNil(t, <-result)

	// the stale load is neither cached nor announced in the new session
	assert.False(t, s.Loaded())
	assert.Equal(t, newID, s.ID())
	assert.Equal(t, int32(0), loads.Load())

	_, err := s.Table(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Loaded())
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, int32(1), loads.Load())
}

func TestSession_ResetInsideOnLoadStopsDelivery(t *testing.T) {
	s := NewSession(&countingSource{}, quietLogger())

	serving := false
	s.OnLoad(func(string) { s.Reset() })
	s.OnLoad(func(string) { serving = true })
	s.OnReset(func(string) { serving = false })

	_, err := s.Table(context.Background())
	require.NoError(t, err)

	assert.False(t, s.Loaded())
	assert.False(t, serving)
}

func TestResetScheduler(t *testing.T) {
	s := NewSession(&countingSource{}, quietLogger())

	_, err := NewResetScheduler(s, "not a cron", quietLogger())
	assert.Error(t, err)

	rs, err := NewResetScheduler(s, "0 0 6 * * *", quietLogger())
	require.NoError(t, err)
	assert.Len(t, rs.Cron.Entries(), 1)

	oldID := s.ID()
	rs.reset()
	assert.NotEqual(t, oldID, s.ID())
}
