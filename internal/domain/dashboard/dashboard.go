// Package dashboard holds the employee and manager view models.
package dashboard

import (
	"context"
	"errors"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
)

const (
	MsgAdded        = "Department added successfully"
	MsgAddFailed    = "Failed to add department"
	MsgUpdated      = "Department updated successfully"
	MsgUpdateFailed = "Failed to update department"
	MsgDeleted      = "Department deleted"
	MsgDeleteFailed = "Failed to delete department"
	MsgEmpty        = "No department information available..."
	MsgLoadFailed   = "Department data could not be loaded."
)

var (
	ErrRecordNotFound = errors.New("department record not found")
	ErrStale          = errors.New("superseded by a newer fetch")
)

// API is the slice of the remote client the dashboards depend on.
type API interface {
	ListDepartments(ctx context.Context, q apiclient.DepartmentQuery) (department.Page, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	CreateDepartment(ctx context.Context, d department.Draft) (department.Record, error)
	UpdateDepartment(ctx context.Context, id string, d department.Draft) (department.Record, error)
	DeleteDepartment(ctx context.Context, id string) error
}

// Row is one rendered table line.
type Row struct {
	ID         string
	OwnerName  string
	EmployeeID string
	Name       string
	Category   string
	Location   string
	Salary     string
}

func rowsFor(records []department.Record, names user.Directory) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			ID:         r.ID,
			OwnerName:  names.FullName(r.EmployeeID),
			EmployeeID: r.EmployeeID,
			Name:       r.Name,
			Category:   r.Category,
			Location:   r.Location,
			Salary:     r.Salary.String(),
		})
	}
	return rows
}
