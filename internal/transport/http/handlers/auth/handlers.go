package authhandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/auth"
	"deptportal/internal/platform/logging"
	"deptportal/internal/session"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/shared"
)

const (
	MsgLoginSuccess   = "Login successful!"
	MsgLoginFailed    = "Login failed. Invalid credentials or server error."
	MsgLoginError     = "Error during login. Please try again."
	MsgUnexpectedRole = "Unexpected role. Please contact support."
	MsgSignupSuccess  = "Signup successful!"
	MsgSignupFailed   = "Signup failed."
	MsgSignupError    = "Error signing up. Please try again."
	MsgLoggedOut      = "Logged out successfully."
	MsgBadForm        = "The form could not be read. Please try again."
)

type API interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	Signup(ctx context.Context, s auth.Signup) (bool, error)
}

// Sessions creates and ends browser sessions.
type Sessions interface {
	Set(ctx context.Context, w http.ResponseWriter, token, employeeID, role string) (session.Session, error)
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	Discard(ctx context.Context, id string) error
}

// BoardDropper forgets per-session dashboard state.
type BoardDropper interface {
	Drop(sessionID string)
}

type Handler struct {
	API      API
	Sessions Sessions
	Boards   BoardDropper
	Pages    *shared.Responder
}

func NewHandler(api API, sessions Sessions, boards BoardDropper, pages *shared.Responder) *Handler {
	return &Handler{API: api, Sessions: sessions, Boards: boards, Pages: pages}
}

type loginForm struct {
	Email string
}

type signupForm struct {
	auth.Signup
	Genders      []string
	HobbyOptions []string
	Roles        []string
}

func newSignupForm(s auth.Signup) signupForm {
	if s.Role == "" {
		s.Role = auth.DefaultSignupRole
	}
	return signupForm{
		Signup:       s,
		Genders:      auth.Genders,
		HobbyOptions: auth.Hobbies,
		Roles:        []string{auth.RoleEmployee, auth.RoleManager},
	}
}

// RegisterRoutes mounts the auth pages. credentialLimit wraps the login and
// signup posts.
func (h *Handler) RegisterRoutes(r chi.Router, credentialLimit func(http.Handler) http.Handler) {
	r.Get(auth.RouteSignup, h.ShowSignup)
	r.Get("/signup", h.ShowSignup)
	r.Get(auth.RouteLogin, h.ShowLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		if credentialLimit != nil {
			r.Use(credentialLimit)
		}
		r.Post(auth.RouteSignup, h.HandleSignup)
		r.Post("/signup", h.HandleSignup)
		r.Post(auth.RouteLogin, h.HandleLogin)
	})
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.Pages.Render(w, r, http.StatusOK, "login", "Login", loginForm{})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.Render(w, r, http.StatusBadRequest, "login", "Login", loginForm{}, shared.Failure(MsgBadForm))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	form := loginForm{Email: email}
	log := logging.FromContext(r.Context())

	res, err := h.API.Login(r.Context(), email, password)
	if err != nil {
		log.Warn().Err(err).Msg("login call failed")
		h.Pages.Render(w, r, http.StatusBadGateway, "login", "Login", form, shared.Failure(MsgLoginError))
		return
	}
	if !res.Complete() {
		h.Pages.Render(w, r, http.StatusUnauthorized, "login", "Login", form, shared.Failure(MsgLoginFailed))
		return
	}
	landing, err := auth.LandingRoute(res.Role)
	if err != nil {
		log.Error().Str("role", res.Role).Msg("unexpected role from login")
		h.Pages.Render(w, r, http.StatusForbidden, "login", "Login", form, shared.Failure(MsgUnexpectedRole))
		return
	}

	if prev, ok := middleware.GetSession(r.Context()); ok {
		h.Boards.Drop(prev.ID)
		if err := h.Sessions.Discard(r.Context(), prev.ID); err != nil {
			log.Warn().Err(err).Msg("previous session discard failed")
		}
	}
	if _, err := h.Sessions.Set(r.Context(), w, res.Token, res.EmployeeID, res.Role); err != nil {
		log.Error().Err(err).Msg("session create failed")
		h.Pages.Render(w, r, http.StatusInternalServerError, "login", "Login", form, shared.Failure(MsgLoginError))
		return
	}
	log.Info().Str("role", res.Role).Str("employeeId", res.EmployeeID).Msg("login succeeded")
	h.Pages.Notice(w, r, "Login", MsgLoginSuccess, landing, shared.Success(MsgLoginSuccess))
}

func (h *Handler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.Pages.Render(w, r, http.StatusOK, "signup", "Sign Up", newSignupForm(auth.Signup{}))
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.Render(w, r, http.StatusBadRequest, "signup", "Sign Up", newSignupForm(auth.Signup{}), shared.Failure(MsgBadForm))
		return
	}
	signup := auth.Signup{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Gender:    r.PostFormValue("gender"),
		Hobbies:   r.PostForm["hobbies"],
		Role:      r.PostFormValue("role"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
	}.Normalize()
	form := newSignupForm(signup)
	form.Password = ""

	v := shared.NewValidator()
	v.Check(auth.ValidEmail(signup.Email), "email", auth.MsgInvalidEmail)
	v.Check(auth.ValidPassword(signup.Password), "password", auth.MsgInvalidPassword)
	v.Enum("gender", signup.Gender, auth.Genders, "Choose male, female or other.")
	v.Check(auth.KnownRole(signup.Role), "role", "Choose employee or manager.")
	if v.HasIssues() {
		messages := v.Messages()
		toasts := make([]session.Flash, 0, len(messages))
		for _, msg := range messages {
			toasts = append(toasts, shared.Failure(msg))
		}
		h.Pages.Render(w, r, http.StatusUnprocessableEntity, "signup", "Sign Up", form, toasts...)
		return
	}

	ok, err := h.API.Signup(r.Context(), signup)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("signup call failed")
		h.Pages.Render(w, r, http.StatusBadGateway, "signup", "Sign Up", form, shared.Failure(MsgSignupError))
		return
	}
	if !ok {
		h.Pages.Render(w, r, http.StatusOK, "signup", "Sign Up", form, shared.Failure(MsgSignupFailed))
		return
	}
	h.Pages.Notice(w, r, "Sign Up", MsgSignupSuccess, auth.RouteLogin, shared.Success(MsgSignupSuccess))
}

// HandleLogout ends the session and drops its dashboard state. Logging out
// without a session still lands on the login page.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSession(r.Context()); ok {
		h.Boards.Drop(sess.ID)
	}
	if err := h.Sessions.Clear(r.Context(), w, r); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("session clear failed")
	}
	h.Pages.Notice(w, r, "Logout", MsgLoggedOut, auth.RouteLogin, shared.Info(MsgLoggedOut))
}
