package dashboard

import (
	"context"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
	"deptportal/internal/platform/join"
	"deptportal/internal/platform/logging"
)

type Outcome string

const (
	OutcomeReady  Outcome = "ready"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

type EmployeeView struct {
	Outcome    Outcome
	Message    string
	EmployeeID string
	Rows       []Row
}

// LoadEmployee fetches the records owned by employeeID together with the user
// list. A failed user fetch degrades owner names to "N/A"; a failed record
// fetch fails the view.
func LoadEmployee(ctx context.Context, api API, employeeID string) EmployeeView {
	view := EmployeeView{EmployeeID: employeeID}
	log := logging.FromContext(ctx)

	pageRes, usersRes := join.Both(ctx,
		func(ctx context.Context) (department.Page, error) {
			return api.ListDepartments(ctx, apiclient.DepartmentQuery{EmployeeID: employeeID})
		},
		func(ctx context.Context) ([]user.User, error) {
			return api.ListUsers(ctx)
		},
	)

	if !pageRes.OK() {
		log.Error().Err(pageRes.Err).Str("employeeId", employeeID).Msg("employee departments fetch failed")
		view.Outcome = OutcomeFailed
		view.Message = MsgLoadFailed
		return view
	}
	if !usersRes.OK() {
		log.Warn().Err(usersRes.Err).Msg("user list fetch failed, owner names unavailable")
	}

	owned := department.OwnedBy(pageRes.Value.Records, employeeID)
	if len(owned) == 0 {
		view.Outcome = OutcomeEmpty
		view.Message = MsgEmpty
		return view
	}
	view.Outcome = OutcomeReady
	view.Rows = rowsFor(owned, user.NewDirectory(usersRes.Value))
	return view
}
