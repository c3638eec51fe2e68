package rules

import (
	"testing"

	"github.com/park285/chess-rules/internal/board"
)

func validate(t *testing.T, setup, notation string, side board.Color) bool {
	t.Helper()
	p := newPipeline(t, setup)
	rec, err := p.parser.Parse(notation, side)
	if err != nil {
		t.Fatalf("Parse(%q): %v", notation, err)
	}
	return p.validator.Validate(rec)
}

func TestValidatorRules(t *testing.T) {
	cases := []struct {
		name     string
		setup    string
		notation string
		want     bool
	}{
		{"ambiguous knights", "4k3/8/8/8/8/8/8/1N2KN2", "Nd2", false},
		{"file disambiguates", "4k3/8/8/8/8/8/8/1N2KN2", "Nbd2", true},
		{"square disambiguates", "4k3/8/8/8/8/8/8/1N2KN2", "Nf1d2", true},
		{"own piece on target", "", "Nd2", false},
		{"rook path blocked", "", "Ra3", false},
		{"pinned knight", "4r1k1/8/8/8/8/8/4N3/4K3", "Nc3", false},
		{"block the check", "4r1k1/8/8/8/8/8/8/3BK3", "Be2", true},
		{"ignore the check", "4r1k1/8/8/8/8/8/8/3BK3", "Bc2", false},
		{"capture the checker", "R3r1k1/8/8/8/8/8/8/4K3", "Rxe8", true},
		{"rook move ignoring check", "R3r1k1/8/8/8/8/8/8/4K3", "Rb8", false},
		{"king into check", "4r1k1/8/8/8/8/8/8/3K4", "Ke1", false},
		{"king aside", "4r1k1/8/8/8/8/8/8/3K4", "Kc1", true},
		{"king along checking line", "4r1k1/8/8/8/8/8/4K3/8", "Ke1", false},
		{"king off checking line", "4r1k1/8/8/8/8/8/4K3/8", "Kd1", true},
		{"pawn cannot capture straight", "4k3/8/8/8/4p3/4P3/8/4K3", "e4", false},
		{"double push through piece", "4k3/8/8/8/8/4n3/4P3/4K3", "e4", false},
		{"pawn diagonal to empty", "4k3/8/8/8/8/8/4P3/4K3", "d3", false},
		{"pawn capture", "4k3/8/8/8/8/3p4/4P3/4K3", "ed3", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := validate(t, c.setup, c.notation, board.White); got != c.want {
				t.Fatalf("Validate(%s) = %v want %v", c.notation, got, c.want)
			}
		})
	}
}

func TestValidatorClearsAmbiguousSet(t *testing.T) {
	p := newPipeline(t, "4k3/8/8/8/8/8/8/1N2KN2")
	rec, err := p.parser.Parse("Nd2", board.White)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rec.Variations) != 2 {
		t.Fatalf("parser should keep both knights, got %d", len(rec.Variations))
	}
	p.validator.Validate(rec)
	if len(rec.Variations) != 0 {
		t.Fatalf("validator should clear the set, got %d", len(rec.Variations))
	}
}

func TestValidatorFlagsEnPassant(t *testing.T) {
	p := newPipeline(t, "4k3/8/8/3pP3/8/8/8/4K3")
	rec, err := p.parser.Parse("exd6", board.White)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.validator.Validate(rec) {
		t.Fatalf("en passant shape should pass the static check")
	}
	if !rec.Deep || !rec.EnPassant {
		t.Fatalf("expected deep en passant flags, got deep=%v ep=%v", rec.Deep, rec.EnPassant)
	}
	// no history: the special validator refuses it
	if p.special.Validate(rec) {
		t.Fatalf("en passant without a preceding double step must be illegal")
	}
}
