package rules

import (
	"fmt"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// ExchangeFunc picks the replacement for a promoting pawn.
type ExchangeFunc func() board.Kind

// Result describes one processed move. Legal is false when no
// interpretation of the notation survived; nothing was changed then.
type Result struct {
	Record    *movelog.Record
	Legal     bool
	Check     bool
	Mate      bool
	Promotion bool
	Draw      DrawReason
}

// Pipeline wires the stages for one game. It shares the board and log
// with its owner and must only be driven from one goroutine.
type Pipeline struct {
	board *board.Board
	log   *movelog.Log

	parser    *Parser
	validator *Validator
	special   *SpecialRuleValidator
	check     *CheckAnalyser
	promotion *PromotionAnalyser
	draw      *DrawAnalyser
}

func NewPipeline(b *board.Board, l *movelog.Log) *Pipeline {
	v := NewValidator(b)
	s := NewSpecialRuleValidator(b, l)
	return &Pipeline{
		board:     b,
		log:       l,
		parser:    NewParser(b),
		validator: v,
		special:   s,
		check:     NewCheckAnalyser(b, v, s),
		promotion: NewPromotionAnalyser(b),
		draw:      NewDrawAnalyser(b, l, v, s),
	}
}

func (p *Pipeline) Board() *board.Board { return p.board }
func (p *Pipeline) Log() *movelog.Log { return p.log }

// Play runs notation for the side to move. Errors are either
// ErrInvalidNotation or an invariant violation such as
// board.ErrIllegalCapture; the latter leave the board in an undefined
// state.
func (p *Pipeline) Play(notation string, exchange ExchangeFunc) (Result, error) {
	rec, err := p.parser.Parse(notation, p.log.Turn())
	if err != nil {
		return Result{}, err
	}
	res := Result{Record: rec}
	if !p.validator.Validate(rec) {
		return res, nil
	}
	if rec.Deep && !p.special.Validate(rec) {
		return res, nil
	}

	if err := apply(p.board, rec); err != nil {
		return res, err
	}
	res.Legal = true

	if p.promotion.Analyse(rec) {
		res.Promotion = true
		kind := board.Queen
		if exchange != nil {
			kind = exchange()
		}
		if _, err := p.promotion.Exchange(rec, kind); err != nil {
			return res, fmt.Errorf("promote %s: %w", rec.Notation, err)
		}
	}

	res.Check, res.Mate = p.check.Analyse(rec)
	if err := p.log.Append(rec); err != nil {
		return res, err
	}
	if !res.Mate {
		res.Draw = p.draw.Analyse()
	}
	return res, nil
}
