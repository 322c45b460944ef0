package employeehandler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"deptportal/internal/domain/auth"
	"deptportal/internal/domain/dashboard"
	"deptportal/internal/domain/reports"
	"deptportal/internal/platform/logging"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/shared"
)

type Handler struct {
	API   dashboard.API
	Pages *shared.Responder
	Now   func() time.Time
}

func NewHandler(api dashboard.API, pages *shared.Responder) *Handler {
	return &Handler{API: api, Pages: pages, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(auth.RouteEmployeeDashboard, func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/", h.HandleDashboard)
		r.Get("/export.pdf", h.HandleExportPDF)
	})
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	view := dashboard.LoadEmployee(r.Context(), h.API, sess.EmployeeID)
	status := http.StatusOK
	if view.Outcome == dashboard.OutcomeFailed {
		status = http.StatusBadGateway
	}
	h.Pages.Render(w, r, status, "employee", "Employee Dashboard", view)
}

func (h *Handler) HandleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	view := dashboard.LoadEmployee(r.Context(), h.API, sess.EmployeeID)
	if view.Outcome == dashboard.OutcomeFailed {
		h.Pages.Error(w, r, http.StatusBadGateway, view.Message)
		return
	}

	now := h.Now()
	var buf bytes.Buffer
	if err := reports.WritePDF(&buf, "Your Departments", view.Rows, now); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("employee pdf export failed")
		h.Pages.Error(w, r, http.StatusInternalServerError, "The export could not be generated.")
		return
	}
	w.Header().Set("Content-Type", reports.ContentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reports.Filename("departments", "pdf", now)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
