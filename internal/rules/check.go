package rules

import (
	"strings"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

const (
	CheckMarker = "+"
	MateMarker  = "#"
)

// CheckAnalyser looks at the opponent king after a move is applied.
type CheckAnalyser struct {
	board *board.Board
	probe prober
}

func NewCheckAnalyser(b *board.Board, v *Validator, s *SpecialRuleValidator) *CheckAnalyser {
	return &CheckAnalyser{board: b, probe: prober{validator: v, special: s}}
}

// Analyse appends the check marker, upgraded to mate when the king can
// neither step away nor be shielded.
func (c *CheckAnalyser) Analyse(rec *movelog.Record) (check, mate bool) {
	defender := rec.Color.Opposite()
	checkers := c.board.Checkers(defender)
	if len(checkers) == 0 {
		return false, false
	}
	rec.Notation += CheckMarker

	king := c.board.King(defender)
	if c.canEscape(king) || c.canInterpose(rec, king, checkers) {
		return true, false
	}
	rec.Notation = strings.TrimSuffix(rec.Notation, CheckMarker) + MateMarker
	return true, true
}

func (c *CheckAnalyser) canEscape(king *board.Piece) bool {
	from := king.Square()
	for _, d := range king.Deltas() {
		sq := c.board.Offset(from, d)
		if sq == nil || c.board.OccupiedBy(sq, king.Color()) {
			continue
		}
		if !c.board.IsAttackedIgnoring(sq, king.Color(), from) {
			return true
		}
	}
	return false
}

// canInterpose tries every square from the checker up to the king. The
// checker's own square counts, so a capture also answers a knight check,
// and a pawn checker that has just stepped two squares can also be taken
// en passant. With more than one checker nothing but a king move helps.
func (c *CheckAnalyser) canInterpose(rec *movelog.Record, king *board.Piece, checkers []*board.Piece) bool {
	if len(checkers) != 1 {
		return false
	}
	checker := checkers[0]
	if ep := doubleStepSquare(c.board, rec, checker); ep != nil {
		for _, pc := range c.board.PiecesMovingTo(ep, king.Color(), board.Pawn) {
			if c.probe.legalEnPassant(pc, ep) {
				return true
			}
		}
	}
	targets := []*board.Square{checker.Square()}
	if checker.Kind() != board.Knight {
		targets = append(targets, c.board.Between(checker.Square(), king.Square(), false)...)
	}
	for _, sq := range targets {
		if c.probe.anyReach(c.board, sq, king.Color()) {
			return true
		}
	}
	return false
}

// doubleStepSquare is the square pawn skipped if rec is its opening two
// square advance, otherwise nil. rec is not in the log yet, so the
// special rule validator cannot see it.
func doubleStepSquare(b *board.Board, rec *movelog.Record, pawn *board.Piece) *board.Square {
	if pawn.Kind() != board.Pawn || pawn.Moves() != 1 || len(rec.Variations) != 1 {
		return nil
	}
	v := rec.Variations[0]
	if v.Piece != pawn || v.From == nil || v.To.Rank()-v.From.Rank() != 2*pawn.Color().Forward() {
		return nil
	}
	return b.Offset(v.To, board.Delta{Rank: -pawn.Color().Forward()})
}
