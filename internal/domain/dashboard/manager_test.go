package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
)

func loadedBoard(t *testing.T, api *fakeAPI, page int) *ManagerBoard {
	t.Helper()
	board := NewManagerBoard(api, api.pageSize)
	require.NoError(t, board.Load(context.Background(), page))
	return board
}

func TestBoardPagerBounds(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(12)

	first := loadedBoard(t, api, 1).View().Pager
	assert.Equal(t, department.Pager{Current: 1, Total: 3}, first)
	assert.True(t, first.PrevDisabled())
	assert.False(t, first.NextDisabled())

	middle := loadedBoard(t, api, 2).View().Pager
	assert.False(t, middle.PrevDisabled())
	assert.False(t, middle.NextDisabled())

	last := loadedBoard(t, api, 3).View()
	assert.False(t, last.Pager.PrevDisabled())
	assert.True(t, last.Pager.NextDisabled())
	assert.Len(t, last.Rows, 2)
}

func TestBoardNeedsFetch(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(7)
	board := NewManagerBoard(api, 5)

	assert.True(t, board.NeedsFetch(1, false))
	require.NoError(t, board.Load(context.Background(), 1))
	assert.False(t, board.NeedsFetch(1, false))
	assert.True(t, board.NeedsFetch(2, false))
	assert.True(t, board.NeedsFetch(1, true))
}

func TestBoardRowsResolveNames(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(3)
	api.users = []user.User{{ID: "e1", FirstName: "Ada", LastName: "Lovelace"}}

	rows := loadedBoard(t, api, 1).View().Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Ada Lovelace", rows[0].OwnerName)
	assert.Equal(t, user.NameUnavailable, rows[1].OwnerName)
}

func TestDeleteOnlyRecordPageTwoOfThree(t *testing.T) {
	api := newFakeAPI(1)
	api.seed(3)
	board := NewManagerBoard(api, 1)
	require.NoError(t, board.Load(context.Background(), 2))
	require.Equal(t, department.Pager{Current: 2, Total: 3}, board.View().Pager)
	callsBefore := api.calls()

	require.NoError(t, board.Delete(context.Background(), "d2"))

	view := board.View()
	assert.Empty(t, view.Rows)
	assert.Equal(t, 2, view.Pager.Current)
	assert.Equal(t, callsBefore, api.calls(), "delete must not refetch")
	assert.False(t, board.NeedsFetch(2, false))
}

func TestDeleteRemovesExactlyTarget(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(5)
	board := loadedBoard(t, api, 1)

	require.NoError(t, board.Delete(context.Background(), "d3"))
	assert.Equal(t, []string{"d1", "d2", "d4", "d5"}, ids(recordsOf(board)))
}

func TestDeleteFailureLeavesStateUntouched(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(4)
	board := loadedBoard(t, api, 1)
	api.deleteErr = errUpstream

	err := board.Delete(context.Background(), "d2")
	require.ErrorIs(t, err, errUpstream)
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, ids(recordsOf(board)))
}

func TestEditSubmitUnchangedRoundTrips(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(3)
	board := loadedBoard(t, api, 1)
	before := recordsOf(board)[1]

	require.NoError(t, board.Edit(before.ID))
	view := board.View()
	require.True(t, view.Editing)
	assert.Equal(t, before.ID, view.EditID)
	assert.Equal(t, department.DraftFrom(before), view.Draft)

	sub, err := board.Submit(context.Background(), view.Draft)
	require.NoError(t, err)
	assert.True(t, sub.Updated)
	assert.Equal(t, MsgUpdated, sub.Message())

	after := recordsOf(board)[1]
	assert.Equal(t, before, after)
	after2 := board.View()
	assert.False(t, after2.Editing)
	assert.True(t, after2.Draft.IsZero())
}

func TestEditUnknownRecord(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(2)
	board := loadedBoard(t, api, 1)

	err := board.Edit("missing")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
	assert.False(t, board.View().Editing)
}

func TestSubmitCreatesAndRefetches(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(2)
	board := loadedBoard(t, api, 1)

	draft := department.Draft{Name: " Finance ", Category: "Money", Location: "Delhi", Salary: "9000"}
	sub, err := board.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.False(t, sub.Updated)
	assert.Equal(t, MsgAdded, sub.Message())
	require.Len(t, api.created, 1)
	assert.Equal(t, "Finance", api.created[0].Name)

	assert.Len(t, recordsOf(board), 3)
	assert.True(t, board.View().Draft.IsZero())
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(2)
	board := loadedBoard(t, api, 1)
	api.writeErr = errUpstream

	draft := department.Draft{Name: "Finance"}
	_, err := board.Submit(context.Background(), draft)
	require.ErrorIs(t, err, errUpstream)
	assert.Equal(t, draft, board.View().Draft)
	assert.Len(t, recordsOf(board), 2)
}

func TestResetClearsDraftWithoutNetwork(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(2)
	board := loadedBoard(t, api, 1)
	require.NoError(t, board.Edit("d1"))
	calls := api.calls()

	board.Reset()
	view := board.View()
	assert.False(t, view.Editing)
	assert.Empty(t, view.EditID)
	assert.True(t, view.Draft.IsZero())
	assert.Equal(t, calls, api.calls())
}

func TestLoadFailureKeepsPreviousPage(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(8)
	board := loadedBoard(t, api, 1)
	api.listErr = errUpstream

	err := board.Load(context.Background(), 2)
	require.ErrorIs(t, err, errUpstream)
	view := board.View()
	assert.Equal(t, 1, view.Pager.Current)
	assert.Len(t, view.Rows, 5)
	assert.Equal(t, MsgLoadFailed, view.LoadError)
	assert.True(t, board.NeedsFetch(1, false))
}

func TestStaleFetchIsDropped(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(12)
	gate := make(chan struct{})
	api.gate = map[int]chan struct{}{1: gate}
	board := NewManagerBoard(api, 5)

	slow := make(chan error, 1)
	go func() {
		slow <- board.Load(context.Background(), 1)
	}()

	// Wait until the slow fetch has claimed its generation.
	require.Eventually(t, func() bool {
		board.mu.Lock()
		defer board.mu.Unlock()
		return board.generation == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, board.Load(context.Background(), 2))
	close(gate)

	require.ErrorIs(t, <-slow, ErrStale)
	view := board.View()
	assert.Equal(t, 2, view.Pager.Current)
	assert.Equal(t, "d6", view.Rows[0].ID)
}

func recordsOf(b *ManagerBoard) []department.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]department.Record(nil), b.records...)
}

func ids(records []department.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestBoardClampToReportedTotal(t *testing.T) {
	api := newFakeAPI(5)
	api.seed(12)
	board := NewManagerBoard(api, 5)

	assert.Equal(t, 9, board.Clamp(9), "nothing loaded yet")
	assert.Equal(t, 1, board.Clamp(0))

	require.NoError(t, board.Load(context.Background(), 1))
	assert.Equal(t, 3, board.Clamp(9))
	assert.Equal(t, 2, board.Clamp(2))
}

func TestBoardClampWithNoPages(t *testing.T) {
	board := loadedBoard(t, newFakeAPI(5), 1)

	pager := board.View().Pager
	assert.Equal(t, department.Pager{Current: 1, Total: 0}, pager)
	assert.False(t, pager.NextDisabled())
	assert.Equal(t, 1, pager.NextPage())
	assert.Equal(t, 1, board.Clamp(4))
}

func TestUpdateSendsDraftAsEdited(t *testing.T) {
	api := newFakeAPI(5)
	api.records = []department.Record{{ID: "d1", EmployeeID: "e1", Name: " Finance ", Category: "Ops", Location: "Pune ", Salary: "100"}}
	board := loadedBoard(t, api, 1)

	require.NoError(t, board.Edit("d1"))
	_, err := board.Submit(context.Background(), board.View().Draft)
	require.NoError(t, err)

	assert.Equal(t, " Finance ", api.updated["d1"].Name)
	assert.Equal(t, "Pune ", api.updated["d1"].Location)
	assert.Equal(t, api.records[0], recordsOf(board)[0])
}

func TestCreateTrimsDraft(t *testing.T) {
	api := newFakeAPI(5)
	board := loadedBoard(t, api, 1)

	_, err := board.Submit(context.Background(), department.Draft{Name: "  Legal ", Salary: " 10 "})
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Equal(t, "Legal", api.created[0].Name)
	assert.Equal(t, "10", api.created[0].Salary)
}
