package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/pkg/chessdto"
)

func mapResultToPGN(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}

// BuildPGN renders r as PGN text. Games from a custom setup carry SetUp and
// FEN headers; the side to move is always white.
func BuildPGN(r *chessdto.GameResult) string {
	if r == nil {
		return ""
	}
	pgnResult := mapResultToPGN(r.Result)
	var b strings.Builder
	date := r.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	b.WriteString("[Event \"Casual game\"]\n")
	b.WriteString("[Site \"chess-rules\"]\n")
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	fmt.Fprintf(&b, "[White \"%s\"]\n", playerOr(r.White))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", playerOr(r.Black))
	if setup := strings.TrimSpace(r.Setup); setup != "" && setup != board.StartPosition {
		b.WriteString("[SetUp \"1\"]\n")
		fmt.Fprintf(&b, "[FEN \"%s w - - 0 1\"]\n", sanitizePGN(setup))
	}
	if m := strings.TrimSpace(r.Method); m != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", sanitizePGN(strings.ToLower(m)))
	}
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", pgnResult)

	for i := 0; i < len(r.MovesSAN); i += 2 {
		fmt.Fprintf(&b, "%d. %s", i/2+1, strings.TrimSpace(r.MovesSAN[i]))
		if i+1 < len(r.MovesSAN) {
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(r.MovesSAN[i+1]))
		}
		b.WriteString(" ")
	}
	b.WriteString(pgnResult)
	return b.String()
}

func playerOr(name string) string {
	if s := sanitizePGN(name); s != "" {
		return s
	}
	return "?"
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
