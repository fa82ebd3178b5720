package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu         sync.Mutex
	releases   int
	releaseErr error
	queryErr   error
	pingErr    error
	pings      int
}

func (s *fakeSession) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, s.queryErr
}

func (s *fakeSession) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings++
	return s.pingErr
}

func (s *fakeSession) Release(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return s.releaseErr
}

func (s *fakeSession) released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

type fakeProvider struct {
	session    *fakeSession
	acquireErr error
	acquired   int
}

func (p *fakeProvider) Acquire(context.Context) (repository.Session, error) {
	p.acquired++
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.session, nil
}

type recordingObserver struct {
	acquired []error
	finished []string
	released []error
}

func (o *recordingObserver) SessionAcquired(err error) { o.acquired = append(o.acquired, err) }
func (o *recordingObserver) QueryFinished(name string, _ time.Duration, _ error) {
	o.finished = append(o.finished, name)
}
func (o *recordingObserver) SessionReleased(err error) { o.released = append(o.released, err) }

func newTestScope(p repository.SessionProvider, obs repository.QueryObserver, timeout time.Duration) repository.SessionScope {
	return NewSessionScope(p, zerolog.Nop(), obs, timeout)
}

func TestWithinSession_ReleasesOnceOnSuccess(t *testing.T) {
	sess := &fakeSession{}
	obs := &recordingObserver{}
	scope := newTestScope(&fakeProvider{session: sess}, obs, 0)

	called := false
	err := scope.WithinSession(context.Background(), "q", func(ctx context.Context, q repository.Querier) error {
		called = true
		assert.Same(t, sess, q)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, sess.released())
	assert.Equal(t, []error{nil}, obs.acquired)
	assert.Equal(t, []string{"q"}, obs.finished)
	assert.Equal(t, []error{nil}, obs.released)
}

func TestWithinSession_ReleasesOnceOnQueryFailure(t *testing.T) {
	sess := &fakeSession{queryErr: &pgconn.PgError{Code: pgerrcode.QueryCanceled, Message: "canceling statement"}}
	scope := newTestScope(&fakeProvider{session: sess}, nil, 0)

	_, err := collect(context.Background(), scope, "q", "SELECT 1", pgx.RowTo[int64])

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrQueryCanceled)
	assert.Equal(t, 1, sess.released())
}

func TestWithinSession_AcquireFailure(t *testing.T) {
	sess := &fakeSession{}
	obs := &recordingObserver{}
	boom := errors.New("connection refused")
	scope := newTestScope(&fakeProvider{session: sess, acquireErr: boom}, obs, 0)

	called := false
	err := scope.WithinSession(context.Background(), "q", func(context.Context, repository.Querier) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
	assert.Zero(t, sess.released())
	assert.Equal(t, []error{boom}, obs.acquired)
	assert.Empty(t, obs.released)
}

func TestWithinSession_ReleasesOnPanic(t *testing.T) {
	sess := &fakeSession{}
	scope := newTestScope(&fakeProvider{session: sess}, nil, 0)

	assert.Panics(t, func() {
		_ = scope.WithinSession(context.Background(), "q", func(context.Context, repository.Querier) error {
			panic("scan exploded")
		})
	})
	assert.Equal(t, 1, sess.released())
}

func TestWithinSession_ReleaseErrorDoesNotChangeResult(t *testing.T) {
	sess := &fakeSession{releaseErr: errors.New("close failed")}
	obs := &recordingObserver{}
	scope := newTestScope(&fakeProvider{session: sess}, obs, 0)

	err := scope.WithinSession(context.Background(), "q", func(context.Context, repository.Querier) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 1, sess.released())
	require.Len(t, obs.released, 1)
	assert.EqualError(t, obs.released[0], "close failed")
}

func TestWithinSession_ReleasesAfterCallerCancel(t *testing.T) {
	sess := &fakeSession{}
	scope := newTestScope(&fakeProvider{session: sess}, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())

	err := scope.WithinSession(ctx, "q", func(ctx context.Context, _ repository.Querier) error {
		cancel()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sess.released())
}

func TestWithinSession_QueryTimeout(t *testing.T) {
	sess := &fakeSession{}
	scope := newTestScope(&fakeProvider{session: sess}, nil, 2*time.Second)

	err := scope.WithinSession(context.Background(), "q", func(ctx context.Context, _ repository.Querier) error {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinSession_IndependentSessions(t *testing.T) {
	p := &fakeProvider{session: &fakeSession{}}
	scope := newTestScope(p, nil, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, scope.WithinSession(context.Background(), "q", func(context.Context, repository.Querier) error { return nil }))
	}
	assert.Equal(t, 3, p.acquired)
	assert.Equal(t, 3, p.session.released())
}

func TestPinger_UsesSessionPing(t *testing.T) {
	sess := &fakeSession{}
	p := NewPinger(newTestScope(&fakeProvider{session: sess}, nil, 0))

	require.NoError(t, p.Ping(context.Background()))
	assert.Equal(t, 1, sess.pings)
	assert.Equal(t, 1, sess.released())

	down := NewPinger(newTestScope(&fakeProvider{acquireErr: errors.New("down")}, nil, 0))
	assert.ErrorIs(t, down.Ping(context.Background()), repository.ErrUnavailable)
}

func TestProviders_RejectMissingConfig(t *testing.T) {
	_, err := NewPoolProvider(nil).Acquire(context.Background())
	assert.Error(t, err)
	_, err = NewDirectProvider(nil).Acquire(context.Background())
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Brady", escapeLike("Brady"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
