package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/obslog"
	"github.com/park285/chess-rules/internal/results"
	"github.com/park285/chess-rules/internal/session"
	"github.com/park285/chess-rules/pkg/chessdto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrGameOngoing  = errors.New("a game is already running for this key")
	ErrGameNotFound = errors.New("no game for this key")
	ErrCapacity     = errors.New("too many concurrent games")
	ErrShutdown     = errors.New("registry is shutting down")
)

const defaultPersistTimeout = 5 * time.Second

type Config struct {
	QueueCapacity      int
	MaxConcurrentGames int
	PersistTimeout     time.Duration
	Logger             *zap.Logger
	// Sink receives every finished game; nil discards results.
	Sink results.Sink
}

// Registry maps external keys (a chat room, a table number) to running
// sessions. Each session runs on its own goroutine from a bounded group.
type Registry struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.RWMutex
	games   map[string]*entry
	closing bool
	ctx     context.Context
	cancel  context.CancelFunc
	group   errgroup.Group
}

func New(cfg Config) *Registry {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = session.DefaultQueueCapacity
	}
	if cfg.MaxConcurrentGames <= 0 {
		cfg.MaxConcurrentGames = 200
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = obslog.Named("registry")
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		cfg:    cfg,
		logger: logger,
		games:  make(map[string]*entry),
		ctx:    ctx,
		cancel: cancel,
	}
	r.group.SetLimit(cfg.MaxConcurrentGames)
	return r
}

// NewGame starts a game under key. It fails with ErrGameOngoing while an
// earlier game for the same key is still running.
func (r *Registry) NewGame(key string, listener session.Listener, opts ...GameOption) (GameInfo, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return GameInfo{}, errors.New("registry: empty key")
	}
	var o gameOptions
	for _, opt := range opts {
		opt(&o)
	}
	b := board.New()
	setup := board.StartPosition
	if strings.TrimSpace(o.setup) != "" {
		var err error
		if b, err = board.FromPosition(o.setup); err != nil {
			return GameInfo{}, fmt.Errorf("setup %q: %w", o.setup, err)
		}
		setup = b.Position()
	}

	id := uuid.NewString()
	sess, err := session.New(id, listener,
		session.WithBoard(b),
		session.WithQueueCapacity(r.cfg.QueueCapacity),
		session.WithLogger(r.logger.With(zap.String("key", key))),
	)
	if err != nil {
		return GameInfo{}, err
	}
	e := &entry{
		info: GameInfo{
			ID:        id,
			Key:       key,
			White:     o.white,
			Black:     o.black,
			Setup:     setup,
			StartedAt: time.Now(),
		},
		session: sess,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closing {
		return GameInfo{}, ErrShutdown
	}
	if _, exists := r.games[key]; exists {
		return GameInfo{}, fmt.Errorf("%w: %s", ErrGameOngoing, key)
	}
	if !r.group.TryGo(func() error {
		r.run(e)
		return nil
	}) {
		return GameInfo{}, ErrCapacity
	}
	r.games[key] = e
	r.logger.Info("game_created", zap.String("key", key), zap.String("game_id", id), zap.String("setup", setup))
	return e.info.clone(), nil
}

func (r *Registry) run(e *entry) {
	if err := e.session.Run(r.ctx); err != nil {
		r.logger.Error("session_run_error", zap.String("game_id", e.info.ID), zap.Error(err))
	}

	r.mu.Lock()
	if cur, ok := r.games[e.info.Key]; ok && cur == e {
		delete(r.games, e.info.Key)
	}
	info := e.info.clone()
	r.mu.Unlock()

	r.persist(info, e.session)
}

func (r *Registry) persist(info GameInfo, sess *session.Session) {
	if r.cfg.Sink == nil {
		return
	}
	// Run has returned, so Snapshot reads the board directly.
	snap, err := sess.Snapshot(context.Background())
	if err != nil {
		r.logger.Error("result_snapshot_error", zap.String("game_id", info.ID), zap.Error(err))
		return
	}
	res := buildResult(info, sess.Outcome(), snap)

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PersistTimeout)
	defer cancel()
	if err := r.cfg.Sink.Save(ctx, res); err != nil {
		r.logger.Error("result_persist_error", zap.String("game_id", info.ID), zap.String("result", res.Result), zap.Error(err))
		return
	}
	r.logger.Info("result_persist", zap.String("game_id", info.ID), zap.String("result", res.Result), zap.String("method", res.Method))
}

func buildResult(info GameInfo, o session.Outcome, snap chessdto.BoardSnapshot) *chessdto.GameResult {
	res := &chessdto.GameResult{
		GameID:        info.ID,
		Key:           info.Key,
		White:         info.White,
		Black:         info.Black,
		Result:        o.Result(),
		Method:        o.Method(),
		Setup:         info.Setup,
		FinalPosition: snap.Position,
		MovesSAN:      snap.MovesSAN,
		MovesUCI:      snap.MovesUCI,
		StartedAt:     info.StartedAt,
		EndedAt:       time.Now(),
	}
	results.Finalize(res)
	return res
}

func (r *Registry) lookup(key string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.games[strings.TrimSpace(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, key)
	}
	return e, nil
}

// Move parses raw input and queues it for the game under key. Any event
// ParseEvent understands is accepted, so "close" and "draw white" work too.
func (r *Registry) Move(ctx context.Context, key, raw string) error {
	ev, err := session.ParseEvent(raw)
	if err != nil {
		return err
	}
	return r.Submit(ctx, key, ev)
}

func (r *Registry) Submit(ctx context.Context, key string, ev session.Event) error {
	e, err := r.lookup(key)
	if err != nil {
		return err
	}
	return e.session.Submit(ctx, ev)
}

func (r *Registry) RequestDraw(ctx context.Context, key string, requester board.Color) error {
	return r.Submit(ctx, key, session.DrawRequestEvent(requester))
}

// Close queues a close event behind pending moves.
func (r *Registry) Close(ctx context.Context, key string) error {
	return r.Submit(ctx, key, session.CloseEvent())
}

// ForceClose ends the game without waiting for queued events.
func (r *Registry) ForceClose(key string) error {
	e, err := r.lookup(key)
	if err != nil {
		return err
	}
	e.session.Close()
	return nil
}

func (r *Registry) Read(ctx context.Context, key string) (chessdto.BoardSnapshot, error) {
	e, err := r.lookup(key)
	if err != nil {
		return chessdto.BoardSnapshot{}, err
	}
	return e.session.Snapshot(ctx)
}

func (r *Registry) Turn(ctx context.Context, key string) (board.Color, error) {
	e, err := r.lookup(key)
	if err != nil {
		return board.White, err
	}
	return e.session.Turn(ctx)
}

func (r *Registry) Listener(key string) (session.Listener, error) {
	e, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	return e.session.Listener(), nil
}

// Done is closed when the game under key has stopped running.
func (r *Registry) Done(key string) (<-chan struct{}, error) {
	e, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	return e.session.Done(), nil
}

// AttachInfo sets a metadata value on a running game.
func (r *Registry) AttachInfo(key, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.games[strings.TrimSpace(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, key)
	}
	if e.info.Meta == nil {
		e.info.Meta = make(map[string]string)
	}
	e.info.Meta[name] = value
	return nil
}

func (r *Registry) Info(key string) (GameInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.games[strings.TrimSpace(key)]
	if !ok {
		return GameInfo{}, fmt.Errorf("%w: %s", ErrGameNotFound, key)
	}
	return e.info.clone(), nil
}

// Active lists the keys of running games.
func (r *Registry) Active() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.games))
	for k := range r.games {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Shutdown refuses new games, closes the running ones and waits for their
// results to be saved or for ctx to end.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closing = true
	sessions := make([]*session.Session, 0, len(r.games))
	for _, e := range r.games {
		sessions = append(sessions, e.session)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}

	done := make(chan error, 1)
	go func() {
		done <- r.group.Wait()
	}()
	select {
	case err := <-done:
		r.cancel()
		r.logger.Info("registry_shutdown", zap.Int("closed", len(sessions)))
		return err
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	}
}
