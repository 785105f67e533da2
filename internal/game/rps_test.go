package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		a, b         Move
		wantA, wantB Outcome
	}{
		{Rock, Scissors, Win, Lose},
		{Scissors, Paper, Win, Lose},
		{Paper, Rock, Win, Lose},
		{Scissors, Rock, Lose, Win},
		{Paper, Scissors, Lose, Win},
		{Rock, Paper, Lose, Win},
		{Rock, Rock, Tie, Tie},
		{Paper, Paper, Tie, Tie},
		{Scissors, Scissors, Tie, Tie},
	}

	for _, tc := range cases {
		gotA, gotB := Resolve(tc.a, tc.b)
		if gotA != tc.wantA || gotB != tc.wantB {
			t.Fatalf("Resolve(%s,%s) = (%s,%s); want (%s,%s)", tc.a, tc.b, gotA, gotB, tc.wantA, tc.wantB)
		}
	}
}

func TestResolveIsSymmetric(t *testing.T) {
	for _, x := range Moves() {
		for _, y := range Moves() {
			a1, b1 := Resolve(x, y)
			a2, b2 := Resolve(y, x)
			assert.Equal(t, a1, b2, "%s vs %s", x, y)
			assert.Equal(t, b1, a2, "%s vs %s", x, y)
			if x != y {
				assert.NotEqual(t, a1, b1, "distinct moves cannot tie: %s vs %s", x, y)
			}
		}
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove(" Rock ")
	require.NoError(t, err)
	assert.Equal(t, Rock, m)

	for _, bad := range []string{"", "lizard", "spock", "rocks"} {
		_, err := ParseMove(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidMove))
	}
}
