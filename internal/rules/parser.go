package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

var ErrInvalidNotation = errors.New("invalid move notation")

var (
	castlingPattern = regexp.MustCompile(`^[Oo0]-[Oo0](-[Oo0])?$`)
	// piece letter, optional source (square, file or rank), optional
	// capture marker, destination, optional check marks.
	movePattern = regexp.MustCompile(`^([PNSBGRWQHK])?([a-h][1-8]|[a-h]|[1-8])?x?([a-h][1-8])[+#]*$`)
)

// IsNotation reports whether s matches the move grammar. It does not look
// at any board.
func IsNotation(s string) bool {
	s = strings.TrimSpace(s)
	return castlingPattern.MatchString(s) || movePattern.MatchString(s)
}

// Parser turns notation into a candidate record. Every piece whose raw
// pattern reaches the destination is kept; legality is left to the
// Validator.
type Parser struct {
	board *board.Board
}

func NewParser(b *board.Board) *Parser { return &Parser{board: b} }

func (p *Parser) Parse(notation string, side board.Color) (*movelog.Record, error) {
	n := strings.TrimSpace(notation)
	if m := castlingPattern.FindStringSubmatch(n); m != nil {
		return p.castling(m[1] != "", side), nil
	}
	m := movePattern.FindStringSubmatch(n)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	kind := board.Pawn
	if m[1] != "" {
		kind, _ = board.KindFromLetter(m[1][0])
	}
	dest, err := p.board.SquareAt(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
	}
	source := m[2]

	rec := &movelog.Record{
		Notation: canonical(kind, source, m[3]),
		Color:    side,
		PawnMove: kind == board.Pawn,
	}

	if len(source) == 2 {
		from, err := p.board.SquareAt(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
		}
		pc := from.Piece()
		if pc != nil && pc.Kind() == kind && pc.Color() == side && pc.Reaches(dest) {
			rec.Variations = append(rec.Variations, movelog.Variation{Piece: pc, From: from, To: dest})
		}
		return rec, nil
	}

	for _, pc := range p.board.PiecesMovingTo(dest, side, kind) {
		if source != "" && !onCoordinate(pc.Square(), source[0]) {
			continue
		}
		rec.Variations = append(rec.Variations, movelog.Variation{Piece: pc, From: pc.Square(), To: dest})
	}
	return rec, nil
}

func onCoordinate(sq *board.Square, c byte) bool {
	if c >= 'a' && c <= 'h' {
		return sq.File() == c
	}
	return sq.Rank() == int(c-'0')
}

// canonical drops the pawn letter and maps synonyms to N, B, R, Q.
func canonical(kind board.Kind, source, dest string) string {
	var sb strings.Builder
	if kind != board.Pawn {
		sb.WriteByte(kind.Letter())
	}
	sb.WriteString(source)
	sb.WriteString(dest)
	return sb.String()
}

// castling maps the king and the matching rook to their final squares.
// If either is missing from its home square the record has no variations.
func (p *Parser) castling(long bool, side board.Color) *movelog.Record {
	rec := &movelog.Record{Notation: "O-O", Color: side, Castling: true}
	rookFile, kingTo, rookTo := byte('h'), byte('g'), byte('f')
	if long {
		rec.Notation = "O-O-O"
		rookFile, kingTo, rookTo = 'a', 'c', 'd'
	}
	rank := side.HomeRank()
	kingSq, _ := p.board.Square('e', rank)
	rookSq, _ := p.board.Square(rookFile, rank)
	kingDst, _ := p.board.Square(kingTo, rank)
	rookDst, _ := p.board.Square(rookTo, rank)

	king, rook := kingSq.Piece(), rookSq.Piece()
	if king == nil || king != p.board.King(side) {
		return rec
	}
	if rook == nil || rook.Kind() != board.Rook || rook.Color() != side {
		return rec
	}
	rec.Variations = []movelog.Variation{
		{Piece: king, From: kingSq, To: kingDst},
		{Piece: rook, From: rookSq, To: rookDst},
	}
	return rec
}
