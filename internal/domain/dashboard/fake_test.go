package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
)

var errUpstream = errors.New("upstream unavailable")

// fakeAPI serves a fixed record set paged like the remote service.
type fakeAPI struct {
	mu        sync.Mutex
	records   []department.Record
	users     []user.User
	pageSize  int
	listErr   error
	usersErr  error
	deleteErr error
	writeErr  error
	nextID    int
	deleted   []string
	created   []department.Draft
	updated   map[string]department.Draft
	listCalls int
	// gate, when set, blocks page fetches for the keyed page until closed.
	gate map[int]chan struct{}
}

func newFakeAPI(pageSize int) *fakeAPI {
	return &fakeAPI{pageSize: pageSize, updated: map[string]department.Draft{}}
}

func (f *fakeAPI) seed(n int) {
	for i := 1; i <= n; i++ {
		f.records = append(f.records, department.Record{
			ID:         fmt.Sprintf("d%d", i),
			EmployeeID: fmt.Sprintf("e%d", i%3),
			Name:       fmt.Sprintf("Dept %d", i),
			Category:   "Ops",
			Location:   "Pune",
			Salary:     department.Salary(fmt.Sprintf("%d000", i)),
		})
	}
}

func (f *fakeAPI) ListDepartments(ctx context.Context, q apiclient.DepartmentQuery) (department.Page, error) {
	f.mu.Lock()
	gate := f.gate[q.Page]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return department.Page{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return department.Page{}, f.listErr
	}
	if q.EmployeeID != "" {
		// Return everything so the local owner filter does the work.
		return department.Page{Records: append([]department.Record(nil), f.records...)}, nil
	}
	total := (len(f.records) + q.Limit - 1) / q.Limit
	start := (q.Page - 1) * q.Limit
	if start > len(f.records) {
		start = len(f.records)
	}
	end := min(start+q.Limit, len(f.records))
	return department.Page{
		Records:    append([]department.Record(nil), f.records[start:end]...),
		TotalPages: total,
	}, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]user.User(nil), f.users...), nil
}

func (f *fakeAPI) CreateDepartment(_ context.Context, d department.Draft) (department.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return department.Record{}, f.writeErr
	}
	f.nextID++
	rec := department.Record{
		ID:         fmt.Sprintf("new%d", f.nextID),
		EmployeeID: d.EmployeeID,
		Name:       d.Name,
		Category:   d.Category,
		Location:   d.Location,
		Salary:     department.Salary(d.Salary),
	}
	f.records = append(f.records, rec)
	f.created = append(f.created, d)
	return rec, nil
}

func (f *fakeAPI) UpdateDepartment(_ context.Context, id string, d department.Draft) (department.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return department.Record{}, f.writeErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records[i] = department.Record{
				ID:         id,
				EmployeeID: d.EmployeeID,
				Name:       d.Name,
				Category:   d.Category,
				Location:   d.Location,
				Salary:     department.Salary(d.Salary),
			}
			f.updated[id] = d
			return f.records[i], nil
		}
	}
	return department.Record{}, &apiclient.StatusError{Op: "updateDepartment", StatusCode: 404}
}

func (f *fakeAPI) DeleteDepartment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	f.records, _ = department.Without(f.records, id)
	return nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}
