package handlers

import (
	"context"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/validate"

	"github.com/sirupsen/logrus"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	templateDir  string
	secureCookie bool
	log          *logrus.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, templateDir string, secureCookie bool, log *logrus.Logger) *Handlers {
	return &Handlers{db: db, templateDir: templateDir, secureCookie: secureCookie, log: log}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		// Rolling session: renew if past halfway point
		// This keeps active users logged in while still expiring inactive sessions
		now := time.Now()
		timeUntilExpiry := sessionInfo.ExpiresAt.Sub(now)
		halfSessionDuration := SessionDuration / 2

		if timeUntilExpiry < halfSessionDuration {
			// Session is in the second half of its lifetime, renew it
			newExpiresAt := now.Add(SessionDuration)
			if err := h.db.RenewSession(cookie.Value, newExpiresAt); err == nil {
				h.setSessionCookie(w, cookie.Value)
			}
			// If renewal fails, just continue with the current session
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sessionInfo.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Root sends authenticated users to the dashboard and everyone else to login.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = h.db.ValidateSession(cookie.Value)
	return err == nil
}

// AuthViewModel holds data for the login and signup pages.
type AuthViewModel struct {
	Error string
}

// LoginForm renders the login page. Already-authenticated users are sent home.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, "login.html", AuthViewModel{})
}

// Login handles the login form submission. Failures always report the same
// generic message so the response does not reveal which field was wrong.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, "login.html", http.StatusBadRequest, AuthViewModel{Error: "Invalid form submission"})
		return
	}

	const genericError = "Invalid username or password"

	username, err := validate.Username(r.FormValue("username"))
	if err != nil {
		h.renderStatus(w, "login.html", http.StatusBadRequest, AuthViewModel{Error: genericError})
		return
	}
	password, err := validate.Password(r.FormValue("password"))
	if err != nil {
		h.renderStatus(w, "login.html", http.StatusBadRequest, AuthViewModel{Error: genericError})
		return
	}

	user, err := h.db.GetUserByUsername(strings.ToLower(username))
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		h.renderStatus(w, "login.html", http.StatusBadRequest, AuthViewModel{Error: genericError})
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.log.WithError(err).Error("failed to start session")
		h.renderStatus(w, "login.html", http.StatusInternalServerError, AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// SignupForm renders the signup page. Already-authenticated users are sent home.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, "signup.html", AuthViewModel{})
}

// Signup handles account creation, then behaves like a login.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, "signup.html", http.StatusBadRequest, AuthViewModel{Error: "Invalid form submission"})
		return
	}

	username, err := validate.Username(r.FormValue("username"))
	if err != nil {
		h.renderStatus(w, "signup.html", http.StatusBadRequest, AuthViewModel{Error: err.Error()})
		return
	}
	password, err := validate.Password(r.FormValue("password"))
	if err != nil {
		h.renderStatus(w, "signup.html", http.StatusBadRequest, AuthViewModel{Error: err.Error()})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.log.WithError(err).Error("failed to hash password")
		h.renderStatus(w, "signup.html", http.StatusInternalServerError, AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	user, err := h.db.CreateUser(strings.ToLower(username), hash)
	if err != nil {
		// Unique constraint on username
		h.renderStatus(w, "signup.html", http.StatusBadRequest, AuthViewModel{Error: "Username already taken"})
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.log.WithError(err).Error("failed to start session")
		h.renderStatus(w, "signup.html", http.StatusInternalServerError, AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the current session and redirects to login unconditionally.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(cookie.Value); err != nil {
			h.log.WithError(err).Error("failed to delete session")
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// startSession creates a session row and sets the session cookie.
func (h *Handlers) startSession(w http.ResponseWriter, userID int64) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(SessionDuration)
	if err := h.db.CreateSession(token, userID, expiresAt); err != nil {
		return err
	}
	h.setSessionCookie(w, token)
	return nil
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) render(w http.ResponseWriter, viewName string, data any) {
	h.renderStatus(w, viewName, http.StatusOK, data)
}

func (h *Handlers) renderStatus(w http.ResponseWriter, viewName string, status int, data any) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		h.log.WithError(err).Error("template parse error")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		h.log.WithError(err).Error("template execution error")
	}
}
