package shared

import (
	"context"
	"net/http"
	"time"

	"deptportal/internal/platform/logging"
	"deptportal/internal/session"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/views"
)

// FlashQueue is the part of the session manager pages need.
type FlashQueue interface {
	Flash(ctx context.Context, s session.Session, kind, message string) error
	PopFlashes(ctx context.Context, s session.Session) ([]session.Flash, error)
}

// Responder renders pages with the caller's queued toasts attached.
type Responder struct {
	Views         *views.Renderer
	Flashes       FlashQueue
	NavigateDelay time.Duration
}

// Render shows name with any queued toasts plus extra ones for this response.
func (p *Responder) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, extra ...session.Flash) {
	ctx := r.Context()
	page := views.Page{
		Title:     title,
		Data:      data,
		RequestID: middleware.GetRequestID(ctx),
	}
	if sess, ok := middleware.GetSession(ctx); ok {
		page.SignedIn = true
		page.Role = sess.Role
		flashes, err := p.Flashes.PopFlashes(ctx, sess)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("pop flashes failed")
		}
		page.Flashes = flashes
	}
	page.Flashes = append(page.Flashes, extra...)
	p.write(w, r, status, name, page)
}

// Notice shows a message and navigates to target after the configured delay.
func (p *Responder) Notice(w http.ResponseWriter, r *http.Request, title, message, target string, toast session.Flash) {
	page := views.Page{
		Title:     title,
		Data:      message,
		Flashes:   []session.Flash{toast},
		Refresh:   &views.Refresh{URL: target, Delay: p.NavigateDelay},
		RequestID: middleware.GetRequestID(r.Context()),
	}
	p.write(w, r, http.StatusOK, "notice", page)
}

func (p *Responder) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := views.Page{
		Title:     http.StatusText(status),
		Data:      message,
		RequestID: middleware.GetRequestID(r.Context()),
	}
	p.write(w, r, status, "error", page)
}

// Toast queues a toast on the current session for the next page. It is a
// no-op for anonymous requests.
func (p *Responder) Toast(r *http.Request, kind, message string) {
	ctx := r.Context()
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return
	}
	if err := p.Flashes.Flash(ctx, sess, kind, message); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("queue flash failed")
	}
}

func (p *Responder) write(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if err := p.Views.Render(w, status, name, page); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func Success(message string) session.Flash {
	return session.Flash{Kind: session.FlashSuccess, Message: message}
}

func Failure(message string) session.Flash {
	return session.Flash{Kind: session.FlashError, Message: message}
}

func Info(message string) session.Flash {
	return session.Flash{Kind: session.FlashInfo, Message: message}
}
