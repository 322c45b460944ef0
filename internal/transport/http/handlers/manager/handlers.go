package managerhandler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"deptportal/internal/domain/auth"
	"deptportal/internal/domain/dashboard"
	"deptportal/internal/domain/department"
	"deptportal/internal/domain/reports"
	"deptportal/internal/platform/logging"
	"deptportal/internal/session"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/shared"
)

const msgNotOnPage = "That department is not on the current page."

type Handler struct {
	Boards *dashboard.Registry
	Pages  *shared.Responder
	Now    func() time.Time
}

func NewHandler(boards *dashboard.Registry, pages *shared.Responder) *Handler {
	return &Handler{Boards: boards, Pages: pages, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(auth.RouteManagerDashboard, func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleManager))
		r.Get("/", h.HandleDashboard)
		r.Get("/export.xlsx", h.HandleExportXLSX)
		r.Post("/departments", h.HandleSubmit)
		r.Post("/departments/{id}/edit", h.HandleEdit)
		r.Post("/departments/{id}/delete", h.HandleDelete)
		r.Post("/reset", h.HandleReset)
	})
}

func (h *Handler) board(r *http.Request) *dashboard.ManagerBoard {
	sess, _ := middleware.GetSession(r.Context())
	return h.Boards.Board(sess.ID)
}

// ensureLoaded fetches page when the board has nothing usable for it. A page
// past the reported total falls back to the last page.
func (h *Handler) ensureLoaded(r *http.Request, board *dashboard.ManagerBoard, page int, refresh bool) {
	if !board.NeedsFetch(page, refresh) {
		return
	}
	h.load(r, board, page)
	if last := board.Clamp(page); last != page {
		h.load(r, board, last)
	}
}

func (h *Handler) load(r *http.Request, board *dashboard.ManagerBoard, page int) {
	if err := board.Load(r.Context(), page); err != nil && !errors.Is(err, dashboard.ErrStale) {
		logging.FromContext(r.Context()).Warn().Err(err).Int("page", page).Msg("manager board load failed")
	}
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	board := h.board(r)
	req := shared.ParsePage(r, board.View().Pager.Current)
	h.ensureLoaded(r, board, board.Clamp(req.Page), req.Refresh)
	h.Pages.Render(w, r, http.StatusOK, "manager", "Manager Dashboard", board.View())
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	board := h.board(r)
	if err := r.ParseForm(); err != nil {
		h.Pages.Toast(r, session.FlashError, "The form could not be read. Please try again.")
		h.back(w, r)
		return
	}
	draft := department.Draft{
		EmployeeID: r.PostFormValue("employeeId"),
		Name:       r.PostFormValue("name"),
		Category:   r.PostFormValue("category"),
		Location:   r.PostFormValue("location"),
		Salary:     r.PostFormValue("salary"),
	}

	sub, err := board.Submit(r.Context(), draft)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Bool("update", sub.Updated).Msg("department submit failed")
		msg := dashboard.MsgAddFailed
		if sub.Updated {
			msg = dashboard.MsgUpdateFailed
		}
		h.Pages.Toast(r, session.FlashError, msg)
		h.back(w, r)
		return
	}
	h.Pages.Toast(r, session.FlashSuccess, sub.Message())
	h.back(w, r)
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.board(r).Edit(id); err != nil {
		h.Pages.Toast(r, session.FlashError, msgNotOnPage)
	}
	h.back(w, r)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.board(r).Delete(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Str("departmentId", id).Msg("department delete failed")
		h.Pages.Toast(r, session.FlashError, dashboard.MsgDeleteFailed)
		h.back(w, r)
		return
	}
	h.Pages.Toast(r, session.FlashSuccess, dashboard.MsgDeleted)
	h.back(w, r)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.board(r).Reset()
	h.back(w, r)
}

func (h *Handler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	board := h.board(r)
	h.ensureLoaded(r, board, board.View().Pager.Current, false)
	view := board.View()
	if view.LoadError != "" {
		h.Pages.Error(w, r, http.StatusBadGateway, view.LoadError)
		return
	}

	now := h.Now()
	var buf bytes.Buffer
	if err := reports.WriteXLSX(&buf, "Departments", view.Rows); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("manager xlsx export failed")
		h.Pages.Error(w, r, http.StatusInternalServerError, "The export could not be generated.")
		return
	}
	w.Header().Set("Content-Type", reports.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reports.Filename(fmt.Sprintf("departments-page%d", view.Pager.Current), "xlsx", now)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// back returns to the dashboard, which keeps showing the board's current page.
func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.RouteManagerDashboard, http.StatusSeeOther)
}
