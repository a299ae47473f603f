package httpx

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"

	"github.com/company/orderhandler-ui/internal/domain/access"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth   AuthServiceInterface
	Access *access.Resolver
	// Configuration
	CookieDomain  string
	SecureCookies bool
	LoginURL      string
	Logger        *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with the access filter
// chain applied to every route. Which routes anonymous requests may reach is
// decided entirely by the declared access rules, not by the routing table.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:           services.Auth,
		CookieDomain:  services.CookieDomain,
		SecureCookies: services.SecureCookies,
		LoginURL:      services.LoginURL,
		Logger:        services.Logger,
	}

	mux.Handle("GET /login", http.HandlerFunc(loginFormHandler))
	mux.Handle("POST /login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = AccessFilter(services.Access, services.Auth)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

const loginFormHTML = `<!doctype html>
<html>
<head><title>Sign in</title></head>
<body>
<form method="post" action="/login">
  <input type="hidden" name="redirect_uri" value="%s">
  <input type="text" name="username" placeholder="Username" autocomplete="username">
  <input type="password" name="password" placeholder="Password" autocomplete="current-password">
  <label><input type="checkbox" name="remember_me" value="on"> Remember me</label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`

// loginFormHandler serves the credential form. The originally requested path
// rides along as a hidden field so a successful login lands the user where
// they were headed.
// GET /login?redirect_uri=<optional_redirect>.
func loginFormHandler(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	page := fmt.Sprintf(loginFormHTML, html.EscapeString(redirectURI))
	if _, err := io.WriteString(w, page); err != nil {
		return
	}
}
