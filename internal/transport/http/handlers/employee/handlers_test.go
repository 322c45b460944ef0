package employeehandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/dashboard"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/user"
	"deptportal/internal/session"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/shared"
	"deptportal/internal/transport/http/views"
)

type stubAPI struct {
	records  []department.Record
	deptErr  error
	usersErr error
}

func (s *stubAPI) ListDepartments(context.Context, apiclient.DepartmentQuery) (department.Page, error) {
	return department.Page{Records: s.records}, s.deptErr
}

func (s *stubAPI) ListUsers(context.Context) ([]user.User, error) {
	return []user.User{{ID: "emp-1", FirstName: "Ada", LastName: "Lovelace"}}, s.usersErr
}

func (s *stubAPI) CreateDepartment(context.Context, department.Draft) (department.Record, error) {
	return department.Record{}, errors.New("not used")
}

func (s *stubAPI) UpdateDepartment(context.Context, string, department.Draft) (department.Record, error) {
	return department.Record{}, errors.New("not used")
}

func (s *stubAPI) DeleteDepartment(context.Context, string) error {
	return errors.New("not used")
}

type noFlashes struct{}

func (noFlashes) Flash(context.Context, session.Session, string, string) error { return nil }

func (noFlashes) PopFlashes(context.Context, session.Session) ([]session.Flash, error) {
	return nil, nil
}

func serve(t *testing.T, api dashboard.API, path string, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	h := NewHandler(api, &shared.Responder{Views: renderer, Flashes: noFlashes{}})
	h.Now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), *sess))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var employee = &session.Session{ID: "s1", EmployeeID: "emp-1", Role: "employee"}

func TestDashboardShowsOwnedRows(t *testing.T) {
	api := &stubAPI{records: []department.Record{
		{ID: "d1", EmployeeID: "emp-1", Name: "Finance", Salary: "1200"},
		{ID: "d2", EmployeeID: "emp-2", Name: "Legal"},
	}}

	rec := serve(t, api, "/employee-dashboard", employee)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
	assert.Contains(t, rec.Body.String(), "Finance")
	assert.NotContains(t, rec.Body.String(), "Legal")
}

func TestDashboardEmptyAndFailedStates(t *testing.T) {
	rec := serve(t, &stubAPI{}, "/employee-dashboard", employee)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.MsgEmpty)

	rec = serve(t, &stubAPI{deptErr: errors.New("down")}, "/employee-dashboard", employee)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.MsgLoadFailed)
}

func TestDashboardRequiresSession(t *testing.T) {
	rec := serve(t, &stubAPI{}, "/employee-dashboard", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestExportPDF(t *testing.T) {
	api := &stubAPI{
		records:  []department.Record{{ID: "d1", EmployeeID: "emp-1", Name: "Finance"}},
		usersErr: errors.New("users down"),
	}

	rec := serve(t, api, "/employee-dashboard/export.pdf", employee)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")

	rec = serve(t, &stubAPI{deptErr: errors.New("down")}, "/employee-dashboard/export.pdf", employee)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
