package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Purton/wasm-tt/game"
)

func newTestGame(t *testing.T, w, h int, mines ...game.Point) *Game {
	t.Helper()
	b, err := game.NewBoardFromMines(w, h, mines)
	require.NoError(t, err)
	return FromBoard(b)
}

func TestNewGame_SeedIsRecorded(t *testing.T) {
	seed := uint64(99)
	a, err := NewGame(Params{Width: 8, Height: 8, Mines: 10, Seed: &seed})
	require.NoError(t, err)
	b, err := NewGame(Params{Width: 8, Height: 8, Mines: 10, Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, seed, a.Seed)
	assert.Equal(t, a.Board().Mines(), b.Board().Mines())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewGame_InvalidParams(t *testing.T) {
	_, err := NewGame(Params{Width: 2, Height: 2, Mines: 4})
	require.ErrorIs(t, err, game.ErrInvalidConfiguration)
}

func TestGame_LostAfterMine(t *testing.T) {
	g := newTestGame(t, 2, 2, game.Point{X: 0, Y: 0})
	assert.Equal(t, StatusPlaying, g.Status())

	out, err := g.Open(0, 0)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeMineTriggered, out.Kind)
	assert.Equal(t, StatusLost, g.Status())

	_, err = g.Open(1, 1)
	require.ErrorIs(t, err, ErrGameOver)
	require.ErrorIs(t, g.ToggleFlag(1, 1), ErrGameOver)
}

func TestGame_WonWhenAllSafeOpen(t *testing.T) {
	g := newTestGame(t, 3, 3, game.Point{X: 2, Y: 2})

	_, err := g.Open(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, g.Status())
}

func TestGame_FlagBlocksOpen(t *testing.T) {
	g := newTestGame(t, 3, 3, game.Point{X: 2, Y: 2})

	require.NoError(t, g.ToggleFlag(2, 2))
	flagged, err := g.IsFlagged(2, 2)
	require.NoError(t, err)
	assert.True(t, flagged)
	assert.Equal(t, 0, g.MinesRemaining())

	out, err := g.Open(2, 2)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeAlreadyRevealed, out.Kind)
	assert.Equal(t, StatusPlaying, g.Status())

	require.NoError(t, g.ToggleFlag(2, 2))
	assert.Equal(t, 0, g.FlagCount())
}

func TestGame_FlagOnRevealedCellIgnored(t *testing.T) {
	g := newTestGame(t, 3, 3, game.Point{X: 2, Y: 2})
	_, err := g.Open(1, 1)
	require.NoError(t, err)

	require.NoError(t, g.ToggleFlag(1, 1))
	assert.Equal(t, 0, g.FlagCount())
}

func TestGame_ExpansionClearsFlags(t *testing.T) {
	g := newTestGame(t, 4, 1, game.Point{X: 3, Y: 0})
	require.NoError(t, g.ToggleFlag(1, 0))

	out, err := g.Open(0, 0)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeExpanded, out.Kind)
	assert.Equal(t, 0, g.FlagCount())
}

func TestGame_OutOfBounds(t *testing.T) {
	g := newTestGame(t, 3, 3)
	_, err := g.Open(3, 0)
	require.ErrorIs(t, err, game.ErrOutOfBounds)
	require.ErrorIs(t, g.ToggleFlag(0, -1), game.ErrOutOfBounds)
}

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore()
	g, err := s.Create(Params{Width: 5, Height: 5, Mines: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	var seen uuid.UUID
	require.NoError(t, s.With(g.ID, func(g *Game) error {
		seen = g.ID
		return nil
	}))
	assert.Equal(t, g.ID, seen)

	require.NoError(t, s.Delete(g.ID))
	require.ErrorIs(t, s.Delete(g.ID), ErrNotFound)
	require.ErrorIs(t, s.With(g.ID, func(*Game) error { return nil }), ErrNotFound)
}

func TestStore_SerializesOpen(t *testing.T) {
	s := NewStore()
	b, err := game.NewBoardFromMines(20, 20, nil)
	require.NoError(t, err)
	g := FromBoard(b)
	s.Add(g)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.With(g.ID, func(g *Game) error {
				_, err := g.Open(i, i)
				return err
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 400, b.RevealedCount())
	assert.Equal(t, StatusWon, g.Status())
}
