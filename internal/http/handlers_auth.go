package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, username, secret, currentSessionID string) (domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (domainauth.Session, error)
	Subject(ctx context.Context, sessionID string) (service.Subject, error)
	Logout(ctx context.Context, sessionID string) error
	IssueRememberMe(ctx context.Context, username string) (string, error)
	RedeemRememberMe(ctx context.Context, token string) (string, error)
	RevokeRememberMe(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc           AuthServiceInterface
	CookieDomain  string
	SecureCookies bool
	LoginURL      string
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles a credential submission.
// POST /login with form fields username, password, remember_me, redirect_uri.
//
// The current session cookie, if any, travels into Authenticate so the
// service can rotate the session identifier across the privilege change.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     apperrors.Validation("username and password are required"),
		})
		return
	}

	currentSessionID := ""
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		currentSessionID = sessionCookie.Value
	}

	session, err := h.Svc.Authenticate(r.Context(), username, password, currentSessionID)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	h.setSessionCookie(w, r, session)

	if rememberRequested(r.PostFormValue("remember_me")) {
		token, issueErr := h.Svc.IssueRememberMe(r.Context(), username)
		if issueErr != nil {
			// Login already succeeded; remember-me is best effort.
			h.logger().WarnContext(r.Context(), "could not issue remember-me token",
				"username", username, "error", issueErr)
		} else if token != "" {
			h.setRememberCookie(w, r, token)
		}
	}

	http.Redirect(w, r, safeRedirectPath(r.PostFormValue("redirect_uri")), http.StatusFound)
}

// writeLoginError maps an Authenticate failure onto an HTTP response. Failed
// verification and unknown usernames share one response body.
func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsInvalidCredentials(err):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
	case apperrors.IsStoreUnavailable(err):
		h.logger().ErrorContext(r.Context(), "login backend unavailable", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "store_unavailable", Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
	}
}

// Logout destroys the caller's session and clears its cookies.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	if rememberCookie, err := r.Cookie("remember_me"); err == nil {
		if revokeErr := h.Svc.RevokeRememberMe(r.Context(), rememberCookie.Value); revokeErr != nil {
			h.logger().WarnContext(r.Context(), "could not revoke remember-me token", "error", revokeErr)
		}
	}

	h.clearCookie(w, r, "session_id")
	h.clearCookie(w, r, "remember_me")

	loginURL := h.LoginURL
	if loginURL == "" {
		loginURL = "/"
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		if apperrors.IsStoreUnavailable(err) {
			// A transient outage is not a logout; keep the cookie.
			WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "store_unavailable", Err: err})
			return
		}
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	// The subject comes from the security cache when warm; the session read
	// above already touched last-access.
	subject, err := h.Svc.Subject(r.Context(), sessionCookie.Value)
	if err != nil {
		subject = service.Subject{UID: session.UID()}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": subject.UID != "",
		"uid":           subject.UID,
		"remembered":    subject.Remembered,
		"expires_at":    session.ExpiresAt,
	})
}

func rememberRequested(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

func (h *AuthHandlers) cookieSecure(r *http.Request) bool {
	return h.SecureCookies || r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// setRememberCookie stores the remember-me token. The authoritative lifetime
// is the token's server-side TTL; the cookie MaxAge only keeps it across
// browser restarts.
func (h *AuthHandlers) setRememberCookie(w http.ResponseWriter, r *http.Request, token string) {
	const thirtyDays = 30 * 24 * 60 * 60
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_me",
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   thirtyDays,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting
// cookies to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
