package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
	"github.com/park285/chess-rules/internal/obslog"
	"github.com/park285/chess-rules/internal/rules"
	"github.com/park285/chess-rules/pkg/chessdto"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed  = errors.New("session is closed")
	ErrQueueFull      = errors.New("session event queue is full")
	ErrAlreadyRunning = errors.New("session is already running")
)

// DefaultQueueCapacity bounds pending events per session.
const DefaultQueueCapacity = 100

type Termination int

const (
	Ongoing Termination = iota
	Mate
	Draw
	Closed
	Aborted
)

func (t Termination) String() string {
	switch t {
	case Ongoing:
		return "ongoing"
	case Mate:
		return "checkmate"
	case Draw:
		return "draw"
	case Closed:
		return "closed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Outcome is how a session ended. Winner is only meaningful for Mate and
// Reason only for Draw.
type Outcome struct {
	Termination Termination
	Winner      board.Color
	Reason      rules.DrawReason
	Err         error
}

// Result is "white", "black", "draw", or "" when nobody won.
func (o Outcome) Result() string {
	switch o.Termination {
	case Mate:
		return o.Winner.String()
	case Draw:
		return "draw"
	}
	return ""
}

func (o Outcome) Method() string {
	if o.Termination == Draw {
		return strings.ToLower(o.Reason.String())
	}
	return o.Termination.String()
}

type Option func(*Session)

// WithBoard starts the session from an existing position instead of the
// standard one. The session takes ownership of b.
func WithBoard(b *board.Board) Option { return func(s *Session) { s.board = b } }

func WithQueueCapacity(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// envelope carries either a game event or a read of session state that
// must run on the session goroutine.
type envelope struct {
	ev    Event
	query func()
	// claim decides between the consumer and a submitter that saw the
	// session end after queuing the event.
	claim *atomic.Int32
}

const (
	claimPending int32 = iota
	claimTaken
	claimWithdrawn
)

func eventEnvelope(ev Event) envelope {
	return envelope{ev: ev, claim: new(atomic.Int32)}
}

// Session is one game. Board and log are touched only by the goroutine in
// Run; everything else talks to it through the event queue.
type Session struct {
	id       string
	listener Listener
	capacity int
	logger   *zap.Logger

	board    *board.Board
	log      *movelog.Log
	pipeline *rules.Pipeline

	events   chan envelope
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
	terminal atomic.Bool

	mu      sync.Mutex
	outcome Outcome
}

func New(id string, listener Listener, opts ...Option) (*Session, error) {
	if listener == nil {
		return nil, errors.New("session: nil listener")
	}
	s := &Session{
		id:       id,
		listener: listener,
		capacity: DefaultQueueCapacity,
		logger:   obslog.L(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.board == nil {
		s.board = board.New()
	}
	s.log = movelog.New()
	s.pipeline = rules.NewPipeline(s.board, s.log)
	s.events = make(chan envelope, s.capacity)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.logger = s.logger.With(zap.String("session_id", id))
	return s, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Listener() Listener { return s.listener }

// Done is closed when Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Terminal() bool { return s.terminal.Load() }

func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Submit queues ev, waiting for room until ctx is done. Move events are
// checked against the notation grammar before they are queued.
func (s *Session) Submit(ctx context.Context, ev Event) error {
	if err := s.admit(ev); err != nil {
		return err
	}
	env := eventEnvelope(ev)
	select {
	case s.events <- env:
		return s.settle(env)
	case <-s.stop:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues ev or fails with ErrQueueFull without waiting.
func (s *Session) TrySubmit(ev Event) error {
	if err := s.admit(ev); err != nil {
		return err
	}
	env := eventEnvelope(ev)
	select {
	case s.events <- env:
		return s.settle(env)
	default:
		return ErrQueueFull
	}
}

// settle runs after a successful send. If the session ended in the
// meantime and the consumer has not taken the event, the event is
// withdrawn and the caller learns the session is closed.
func (s *Session) settle(env envelope) error {
	if s.terminal.Load() && env.claim.CompareAndSwap(claimPending, claimWithdrawn) {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) admit(ev Event) error {
	if s.terminal.Load() {
		return ErrSessionClosed
	}
	switch ev.Type {
	case EventMove:
		if !rules.IsNotation(ev.Notation) {
			return fmt.Errorf("%w: %q", rules.ErrInvalidNotation, ev.Notation)
		}
	case EventDrawRequest, EventClose:
	default:
		return fmt.Errorf("session: unknown event type %d", ev.Type)
	}
	return nil
}

// Close ends the session at once. An event already being processed still
// completes; queued ones are dropped.
func (s *Session) Close() {
	if s.terminate(Outcome{Termination: Closed}) {
		s.logger.Info("session_closed")
	}
}

func (s *Session) terminate(o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome.Termination != Ongoing {
		return false
	}
	s.outcome = o
	s.terminal.Store(true)
	s.stopOnce.Do(func() { close(s.stop) })
	return true
}

// Run consumes events until the game ends, Close is called or ctx is
// done. It may be called once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)
	s.logger.Info("session_start", zap.String("position", s.board.Position()))

	for {
		select {
		case <-ctx.Done():
			s.terminate(Outcome{Termination: Closed})
			s.logger.Info("session_cancelled", zap.Error(ctx.Err()))
			return nil
		case <-s.stop:
			return nil
		case env := <-s.events:
			if env.query != nil {
				env.query()
				continue
			}
			if s.terminal.Load() {
				return nil
			}
			if !env.claim.CompareAndSwap(claimPending, claimTaken) {
				continue
			}
			s.handle(env.ev)
			if s.terminal.Load() {
				o := s.Outcome()
				s.logger.Info("session_terminal",
					zap.String("termination", o.Termination.String()),
					zap.String("method", o.Method()),
					zap.Int("plies", s.log.Len()),
				)
				return nil
			}
		}
	}
}

func (s *Session) handle(ev Event) {
	switch ev.Type {
	case EventMove:
		s.move(ev.Notation)
	case EventDrawRequest:
		if s.listener.OnDrawRequest(ev.Requester) {
			if s.terminate(Outcome{Termination: Draw, Reason: rules.PlayersDecision}) {
				s.listener.OnDraw(rules.PlayersDecision)
			}
		} else {
			s.logger.Debug("draw_declined", zap.String("requester", ev.Requester.String()))
		}
	case EventClose:
		s.terminate(Outcome{Termination: Closed})
	}
}

func (s *Session) move(notation string) {
	side := s.log.Turn()
	res, err := s.pipeline.Play(notation, s.listener.OnPawnExchange)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidNotation) {
			s.logger.Warn("move_invalid_notation", zap.String("notation", notation), zap.Error(err))
			s.listener.OnIllegalMove()
			return
		}
		// the board may be half-updated; nothing can be trusted any more
		s.logger.Error("session_aborted", zap.String("notation", notation), zap.Error(err))
		s.terminate(Outcome{Termination: Aborted, Err: err})
		return
	}
	if !res.Legal {
		s.logger.Debug("move_illegal", zap.String("notation", notation), zap.String("color", side.String()))
		s.listener.OnIllegalMove()
		return
	}

	s.logger.Info("move_applied",
		zap.String("notation", res.Record.Notation),
		zap.String("color", side.String()),
		zap.Int("ply", s.log.Len()),
	)
	if res.Check && !res.Mate {
		s.listener.OnCheck(side.Opposite())
	}
	s.listener.OnMoveHandled()
	switch {
	// a Close that landed during the callbacks above already ended the
	// game; the listener only hears about the outcome that was recorded
	case res.Mate:
		if s.terminate(Outcome{Termination: Mate, Winner: side}) {
			s.listener.OnMate(side)
		}
	case res.Draw != rules.NoDraw:
		if s.terminate(Outcome{Termination: Draw, Reason: res.Draw}) {
			s.listener.OnDraw(res.Draw)
		}
	}
}

// inspect runs fn on the session goroutine, or directly once Run has
// returned and nothing else touches the board.
func inspect[T any](ctx context.Context, s *Session, fn func() T) (T, error) {
	var zero T
	select {
	case <-s.done:
		return fn(), nil
	default:
	}
	reply := make(chan T, 1)
	env := envelope{query: func() { reply <- fn() }}
	select {
	case s.events <- env:
	case <-s.done:
		return fn(), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return fn(), nil
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Snapshot copies the board and history.
func (s *Session) Snapshot(ctx context.Context) (chessdto.BoardSnapshot, error) {
	return inspect(ctx, s, func() chessdto.BoardSnapshot {
		o := s.Outcome()
		return chessdto.BoardSnapshot{
			SessionID: s.id,
			Squares:   s.board.Grid(),
			Position:  s.board.Position(),
			Turn:      s.log.Turn().String(),
			MovesSAN:  s.log.Notations(),
			MovesUCI:  s.log.UCIMoves(),
			Terminal:  o.Termination != Ongoing,
			Outcome:   o.Method(),
		}
	})
}

// Turn is the side to move.
func (s *Session) Turn(ctx context.Context) (board.Color, error) {
	return inspect(ctx, s, func() board.Color { return s.log.Turn() })
}
