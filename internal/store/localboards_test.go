package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBoardStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalBoardStore(dir)
	require.NoError(t, err)

	boards, err := s.ListBoards("owner")
	require.NoError(t, err)
	assert.Empty(t, boards)

	require.NoError(t, s.InsertBoard(&Board{ID: "b1", OwnerID: "owner", Name: "One", Position: 1, CreatedAt: 100}))
	require.NoError(t, s.InsertBoard(&Board{ID: "b2", OwnerID: "owner", Name: "Two", Position: 0, CreatedAt: 100}))

	boards, err = s.ListBoards("owner")
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "b2", boards[0].ID)

	// State survives a reopen from the same directory.
	reopened, err := NewLocalBoardStore(dir)
	require.NoError(t, err)
	boards, err = reopened.ListBoards("owner")
	require.NoError(t, err)
	assert.Len(t, boards, 2)
}

func TestLocalBoardStoreUpdateDelete(t *testing.T) {
	s, err := NewLocalBoardStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.InsertBoard(&Board{ID: "b1", OwnerID: "owner", Name: "One", Position: 0, CreatedAt: 100}))

	assert.ErrorIs(t, s.UpdateBoard(&Board{ID: "missing", OwnerID: "owner"}), ErrNotFound)

	require.NoError(t, s.UpdateBoard(&Board{ID: "b1", OwnerID: "owner", Name: "Uno", Position: 0}))
	boards, err := s.ListBoards("owner")
	require.NoError(t, err)
	assert.Equal(t, "Uno", boards[0].Name)

	require.NoError(t, s.DeleteBoard("owner", "b1"))
	assert.ErrorIs(t, s.DeleteBoard("owner", "b1"), ErrNotFound)
}

func TestLocalBoardStoreUpsert(t *testing.T) {
	s, err := NewLocalBoardStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.InsertBoard(&Board{ID: "b1", OwnerID: "owner", Name: "One", Position: 0, CreatedAt: 100}))

	require.NoError(t, s.UpsertBoards("owner", []Board{
		{ID: "b1", OwnerID: "owner", Name: "One", Position: 1, CreatedAt: 100},
		{ID: "b2", OwnerID: "owner", Name: "Two", Position: 0, CreatedAt: 100},
	}))

	boards, err := s.ListBoards("owner")
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "b2", boards[0].ID)
}

func TestLocalBoardStoreOwnersIsolated(t *testing.T) {
	s, err := NewLocalBoardStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.InsertBoard(&Board{ID: "b1", OwnerID: "alice", Name: "Mine", Position: 0, CreatedAt: 100}))

	boards, err := s.ListBoards("bob")
	require.NoError(t, err)
	assert.Empty(t, boards)
}
