package game

import (
	"errors"
	"fmt"
	"strings"
)

// Move is one participant's choice for a round.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Outcome is the result of a round from one participant's point of view.
type Outcome string

const (
	Win  Outcome = "win"
	Lose Outcome = "lose"
	Tie  Outcome = "tie"
)

var ErrInvalidMove = errors.New("invalid move")

// beats maps every move to the move it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Moves returns the closed set of valid moves.
func Moves() []Move {
	return []Move{Rock, Paper, Scissors}
}

// ParseMove accepts "rock", "paper" or "scissors" (case and surrounding
// whitespace are ignored).
func ParseMove(s string) (Move, error) {
	m := Move(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	return m, nil
}

func (m Move) Valid() bool {
	_, ok := beats[m]
	return ok
}

// Resolve decides a round. The first outcome belongs to the player of a, the
// second to the player of b; swapping the arguments swaps the outcomes.
func Resolve(a, b Move) (Outcome, Outcome) {
	switch {
	case a == b:
		return Tie, Tie
	case beats[a] == b:
		return Win, Lose
	default:
		return Lose, Win
	}
}
