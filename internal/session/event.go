package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/rules"
)

type EventType int

const (
	EventMove EventType = iota + 1
	EventDrawRequest
	EventClose
)

func (t EventType) String() string {
	switch t {
	case EventMove:
		return "MOVE"
	case EventDrawRequest:
		return "DRAW_REQUEST"
	case EventClose:
		return "CLOSE"
	}
	return "UNKNOWN"
}

type Event struct {
	Type      EventType
	Notation  string
	Requester board.Color
}

func MoveEvent(notation string) Event { return Event{Type: EventMove, Notation: notation} }

func DrawRequestEvent(c board.Color) Event { return Event{Type: EventDrawRequest, Requester: c} }

func CloseEvent() Event { return Event{Type: EventClose} }

// ParseEvent classifies raw player input. Whitespace is dropped first, so
// "close game" and "draw white" work as typed.
func ParseEvent(raw string) (Event, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "close"):
		return CloseEvent(), nil
	case strings.Contains(lower, "white"):
		return DrawRequestEvent(board.White), nil
	case strings.Contains(lower, "black"):
		return DrawRequestEvent(board.Black), nil
	case rules.IsNotation(s):
		return MoveEvent(s), nil
	}
	return Event{}, fmt.Errorf("%w: %q", rules.ErrInvalidNotation, raw)
}
