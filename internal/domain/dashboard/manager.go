package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
	"deptportal/internal/platform/join"
	"deptportal/internal/platform/logging"
)

// ManagerBoard is the per-session state behind the manager dashboard. Remote
// calls run outside the lock; a fetch applies only if no newer fetch started
// after it.
type ManagerBoard struct {
	api      API
	pageSize int

	mu         sync.Mutex
	loaded     bool
	pager      department.Pager
	records    []department.Record
	users      user.Directory
	employees  []user.User
	draft      department.Draft
	editing    bool
	editID     string
	generation uint64
	loadErr    error
	lastUsed   time.Time
}

type ManagerView struct {
	Rows      []Row
	Employees []user.User
	Pager     department.Pager
	Draft     department.Draft
	Editing   bool
	EditID    string
	LoadError string
}

// Submission reports what a submit did so callers can pick the right message.
type Submission struct {
	Updated bool
	Record  department.Record
}

func (s Submission) Message() string {
	if s.Updated {
		return MsgUpdated
	}
	return MsgAdded
}

func NewManagerBoard(api API, pageSize int) *ManagerBoard {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &ManagerBoard{
		api:      api,
		pageSize: pageSize,
		pager:    department.NewPager(1),
		users:    user.NewDirectory(nil),
		lastUsed: time.Now(),
	}
}

// NeedsFetch reports whether showing page requires a round trip.
func (b *ManagerBoard) NeedsFetch(page int, refresh bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastUsed = time.Now()
	return refresh || !b.loaded || b.loadErr != nil || page != b.pager.Current
}

// Clamp bounds a requested page by the last total the API reported. Before
// the first successful load any page is allowed.
func (b *ManagerBoard) Clamp(page int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if !b.loaded {
		return page
	}
	return min(page, max(b.pager.Total, 1))
}

// Load fetches page and the user list concurrently and applies both once they
// settle. A record fetch failure leaves the previous page in place.
func (b *ManagerBoard) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	pageRes, usersRes := join.Both(ctx,
		func(ctx context.Context) (department.Page, error) {
			return b.api.ListDepartments(ctx, apiclient.DepartmentQuery{Page: page, Limit: b.pageSize})
		},
		func(ctx context.Context) ([]user.User, error) {
			return b.api.ListUsers(ctx)
		},
	)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		logging.FromContext(ctx).Debug().Int("page", page).Msg("dropping superseded board fetch")
		return ErrStale
	}
	if usersRes.OK() {
		b.users = user.NewDirectory(usersRes.Value)
		b.employees = usersRes.Value
	}
	if !pageRes.OK() {
		b.loadErr = pageRes.Err
		return fmt.Errorf("load page %d: %w", page, pageRes.Err)
	}
	b.loaded = true
	b.loadErr = nil
	b.pager = department.Pager{Current: page, Total: pageRes.Value.TotalPages}
	b.records = pageRes.Value.Records
	if !usersRes.OK() {
		return fmt.Errorf("load users: %w", usersRes.Err)
	}
	return nil
}

func (b *ManagerBoard) Edit(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := department.Find(b.records, id)
	if !ok {
		return ErrRecordNotFound
	}
	b.draft = department.DraftFrom(rec)
	b.editing = true
	b.editID = id
	return nil
}

// Reset clears the draft and leaves edit mode.
func (b *ManagerBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
}

func (b *ManagerBoard) resetLocked() {
	b.draft = department.Draft{}
	b.editing = false
	b.editID = ""
}

// Submit creates or updates depending on edit mode. New records are trimmed;
// updates are sent as edited so an unchanged record round-trips exactly. On
// success the draft is cleared and the current page refetched; on failure the
// draft is kept.
func (b *ManagerBoard) Submit(ctx context.Context, d department.Draft) (Submission, error) {
	b.mu.Lock()
	b.draft = d
	editing, editID := b.editing, b.editID
	page := b.pager.Current
	b.mu.Unlock()

	var (
		rec department.Record
		err error
	)
	if editing {
		rec, err = b.api.UpdateDepartment(ctx, editID, d)
	} else {
		rec, err = b.api.CreateDepartment(ctx, d.Trimmed())
	}
	sub := Submission{Updated: editing, Record: rec}
	if err != nil {
		if editing {
			return sub, fmt.Errorf("update department %s: %w", editID, err)
		}
		return sub, fmt.Errorf("create department: %w", err)
	}

	b.mu.Lock()
	b.resetLocked()
	b.mu.Unlock()

	if err := b.Load(ctx, page); err != nil && !errors.Is(err, ErrStale) {
		logging.FromContext(ctx).Warn().Err(err).Int("page", page).Msg("refetch after submit failed")
	}
	return sub, nil
}

// Delete removes id remotely first and, only on success, drops exactly that
// record from the local page without refetching.
func (b *ManagerBoard) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("delete department %s: %w", id, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	records, removed := department.Without(b.records, id)
	if removed {
		b.records = records
	}
	if b.editing && b.editID == id {
		b.resetLocked()
	}
	return nil
}

func (b *ManagerBoard) View() ManagerView {
	b.mu.Lock()
	defer b.mu.Unlock()
	view := ManagerView{
		Rows:      rowsFor(b.records, b.users),
		Employees: slices.Clone(b.employees),
		Pager:     b.pager,
		Draft:     b.draft,
		Editing:   b.editing,
		EditID:    b.editID,
	}
	if b.loadErr != nil {
		view.LoadError = MsgLoadFailed
	}
	return view
}

// Records returns a copy of the current page.
func (b *ManagerBoard) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}
