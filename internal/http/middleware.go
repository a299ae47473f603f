package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/company/orderhandler-ui/internal/domain/access"
	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessFilter returns a middleware that resolves the declared access rules
// for each request path and enforces the matched filter's verdict. The
// resolved authentication state is placed in the request context for
// downstream handlers regardless of the verdict taken.
func AccessFilter(resolver *access.Resolver, authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := getRequestState(r, authSvc)
			if err != nil {
				// A backing-store outage must not demote the request to
				// anonymous; answer retryable instead of redirecting.
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "store_unavailable",
					Err:     err,
				})
				return
			}

			filter := resolver.Resolve(r.URL.Path)
			decision := filter.Apply(state)

			switch decision.Outcome {
			case access.OutcomeAllow:
				ctx := SetRequestStateInContext(r.Context(), state)
				next.ServeHTTP(w, r.WithContext(ctx))
			case access.OutcomeRedirect:
				http.Redirect(w, r, decision.RedirectURL, http.StatusFound)
			default:
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "access_denied",
					Err:     errors.New("access denied"),
				})
			}
		})
	}
}

// getRequestState builds the request's authentication state from its cookies.
// An unknown or expired session cookie yields an anonymous state rather than
// an error; the filters decide what anonymous requests may do. A store outage
// is returned as an error, never folded into "no session".
func getRequestState(r *http.Request, authSvc AuthServiceInterface) (domainauth.RequestState, error) {
	state := domainauth.RequestState{Path: r.URL.Path}

	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		session, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
		switch {
		case err == nil:
			state.Session = &session
		case apperrors.IsStoreUnavailable(err):
			return state, err
		}
	}

	if rememberCookie, err := r.Cookie("remember_me"); err == nil {
		_, err := authSvc.RedeemRememberMe(r.Context(), rememberCookie.Value)
		switch {
		case err == nil:
			state.Remembered = true
		case apperrors.IsStoreUnavailable(err):
			return state, err
		}
	}

	return state, nil
}
