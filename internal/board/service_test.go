package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	rows, err := store.OpenSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { rows.Close() })
	return NewService(rows, rows, zap.NewNop()), rows
}

var projectClock int64 = 1000

func insertProject(t *testing.T, rows *store.SQLiteStore, ownerID, desc, boardID string) store.Project {
	t.Helper()
	projectClock++
	p := store.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        "proj",
		Description: desc,
		BoardID:     boardID,
		Color:       store.ProjectColors[0],
		CreatedAt:   projectClock,
	}
	require.NoError(t, rows.InsertProject(&p))
	return p
}

func TestListSeedsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	boards, err := svc.List("owner")
	require.NoError(t, err)
	require.Len(t, boards, len(DefaultBoards))
	for i, b := range boards {
		assert.Equal(t, DefaultBoards[i], b.Name)
		assert.Equal(t, i, b.Position)
	}

	// Seeding happens once.
	again, err := svc.List("owner")
	require.NoError(t, err)
	assert.Equal(t, boards, again)
}

func TestAddBoard(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add("owner", "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	b, err := svc.Add("owner", "  Platform  ")
	require.NoError(t, err)
	assert.Equal(t, "Platform", b.Name)
	assert.Equal(t, len(DefaultBoards), b.Position)
}

func TestRenameRewritesMarkers(t *testing.T) {
	svc, rows := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)
	enterprise := boards[1]

	member := insertProject(t, rows, "owner", "Q1 work [board:enterprise]", "")
	outsider := insertProject(t, rows, "owner", "other [board:yelloskye]", "")

	renamed, err := svc.Rename("owner", enterprise.ID, "Enterprise EU")
	require.NoError(t, err)
	assert.Equal(t, "Enterprise EU", renamed.Name)

	got, err := rows.GetProject("owner", member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q1 work [board:enterprise-eu]", got.Description)

	untouched, err := rows.GetProject("owner", outsider.ID)
	require.NoError(t, err)
	assert.Equal(t, "other [board:yelloskye]", untouched.Description)
}

func TestRenameValidation(t *testing.T) {
	svc, _ := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)

	_, err = svc.Rename("owner", boards[0].ID, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Rename("owner", boards[0].ID, boards[0].Name)
	assert.ErrorIs(t, err, ErrNoChange)

	_, err = svc.Rename("owner", "missing", "New Name")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBoard(t *testing.T) {
	svc, rows := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)

	member := insertProject(t, rows, "owner", "", boards[1].ID)

	require.NoError(t, svc.Delete("owner", boards[1].ID))

	remaining, err := svc.List("owner")
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	// Positions re-packed contiguously from zero.
	for i, b := range remaining {
		assert.Equal(t, i, b.Position)
	}

	// Membership cleared; the project now resolves to the first board.
	got, err := rows.GetProject("owner", member.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BoardID)
	resolved := Resolve(*got, remaining)
	require.NotNil(t, resolved)
	assert.Equal(t, remaining[0].ID, resolved.ID)
}

func TestDeleteLastBoardRefused(t *testing.T) {
	svc, _ := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)

	require.NoError(t, svc.Delete("owner", boards[0].ID))
	require.NoError(t, svc.Delete("owner", boards[1].ID))
	assert.ErrorIs(t, svc.Delete("owner", boards[2].ID), ErrLastBoard)
}

func TestMoveBoard(t *testing.T) {
	svc, _ := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)

	moved, err := svc.Move("owner", boards[1].ID, Left)
	require.NoError(t, err)
	assert.Equal(t, boards[1].ID, moved[0].ID)
	assert.Equal(t, boards[0].ID, moved[1].ID)

	// The swap is persisted.
	fresh, err := svc.List("owner")
	require.NoError(t, err)
	assert.Equal(t, boards[1].ID, fresh[0].ID)

	// Boundary move leaves order unchanged.
	same, err := svc.Move("owner", fresh[0].ID, Left)
	require.NoError(t, err)
	assert.Equal(t, fresh, same)
}

func TestMoveProjectIsViewOnly(t *testing.T) {
	svc, rows := newTestService(t)
	boards, err := svc.List("owner")
	require.NoError(t, err)

	first := insertProject(t, rows, "owner", "", boards[0].ID)
	second := insertProject(t, rows, "owner", "", boards[0].ID)

	// Projects list newest-first, so second comes before first.
	group, err := svc.MoveProject("owner", boards[0].ID, first.ID, Left)
	require.NoError(t, err)
	require.Len(t, group, 2)
	assert.Equal(t, first.ID, group[0].ID)
	assert.Equal(t, second.ID, group[1].ID)

	// Nothing was persisted; the stored grouping is unchanged.
	_, grouped, err := svc.Grouped("owner")
	require.NoError(t, err)
	assert.Equal(t, second.ID, grouped[boards[0].ID][0].ID)
}
