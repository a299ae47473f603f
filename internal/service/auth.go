package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/observability/metrics"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
	"github.com/company/orderhandler-ui/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Realm      ports.CredentialRealm  // Required: credential record lookup
	Hasher     ports.PasswordHasher   // Required: hash verification
	Sessions   ports.SessionStore     // Required: distributed session store
	Registry   ports.SessionRegistry  // Optional: per-username session audit list
	Cache      ports.SecurityCache    // Optional: security-context cache
	RememberMe ports.RememberMeStore  // Optional: remember-me tokens
	SubjectTTL time.Duration          // Optional: cached subject lifetime
	Logger     *slog.Logger           // Optional: structured logger
	Metrics    statsd.Sink            // Optional: metrics sink (StatsD-compatible)
}

// AuthService orchestrates authentication: credential verification against the
// external store, session rotation on login, and session-backed subject state.
type AuthService struct {
	realm      ports.CredentialRealm
	hasher     ports.PasswordHasher
	sessions   ports.SessionStore
	registry   ports.SessionRegistry
	cache      ports.SecurityCache
	rememberMe ports.RememberMeStore
	subjectTTL time.Duration
	logger     *slog.Logger
	metrics    statsd.Sink

	// decoy is a valid credential record for a random secret. Verification
	// runs against it when the username is unknown so both outcomes cost one
	// full derivation.
	decoy domainauth.StoredCredential
}

const defaultSubjectTTL = 5 * time.Minute

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Realm == nil {
		return nil, errors.New("CredentialRealm is required")
	}
	if opts.Hasher == nil {
		return nil, errors.New("PasswordHasher is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}

	subjectTTL := opts.SubjectTTL
	if subjectTTL <= 0 {
		subjectTTL = defaultSubjectTTL
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "auth_service")
	}

	decoySecret, err := opts.Hasher.Hash("decoy")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		realm:      opts.Realm,
		hasher:     opts.Hasher,
		sessions:   opts.Sessions,
		registry:   opts.Registry,
		cache:      opts.Cache,
		rememberMe: opts.RememberMe,
		subjectTTL: subjectTTL,
		logger:     logger,
		metrics:    opts.Metrics,
		decoy: domainauth.StoredCredential{
			Username:   "decoy",
			Hash:       decoySecret.Hash,
			PublicSalt: decoySecret.PublicSalt,
			Algorithm:  decoySecret.Algorithm,
			Iterations: decoySecret.Iterations,
		},
	}, nil
}

// Authenticate verifies the submitted credentials and, on success, rotates the
// caller's session: a fresh session is created, the old session's attributes
// are carried over, the uid attribute is set, and the old session is
// destroyed. The returned session always has an identifier distinct from
// currentSessionID, and currentSessionID resolves to nothing afterwards.
//
// currentSessionID may be empty (no prior session) or stale; neither blocks a
// successful login.
func (s *AuthService) Authenticate(ctx context.Context, username, secret, currentSessionID string) (domainauth.Session, error) {
	record, err := s.realm.FindCredentialRecord(ctx, username)
	if apperrors.IsNotFound(err) {
		// Burn a derivation so unknown and known usernames take the same
		// time from the caller's point of view.
		_, _ = s.hasher.Verify(secret, s.decoy)
		s.emitLogin(metrics.ResultFailure, apperrors.InvalidCredentials())
		return domainauth.Session{}, apperrors.InvalidCredentials()
	}
	if err != nil {
		s.emitLogin(metrics.ResultError, err)
		return domainauth.Session{}, err
	}

	ok, err := s.hasher.Verify(secret, record)
	if err != nil {
		s.emitLogin(metrics.ResultError, err)
		return domainauth.Session{}, err
	}
	if !ok {
		s.emitLogin(metrics.ResultFailure, apperrors.InvalidCredentials())
		return domainauth.Session{}, apperrors.InvalidCredentials()
	}

	attrs := s.captureAttributes(ctx, currentSessionID)

	sess, err := s.rotateSession(ctx, username, currentSessionID, attrs)
	if err != nil {
		s.emitLogin(metrics.ResultError, err)
		return domainauth.Session{}, err
	}

	s.emitLogin(metrics.ResultSuccess, nil)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "login succeeded", "username", username, "session_id", sess.ID)
	}
	return sess, nil
}

// captureAttributes reads the attributes of the pre-login session. A stale or
// absent session yields no attributes; a store failure here does not block the
// login, it only loses the anonymous attributes.
func (s *AuthService) captureAttributes(ctx context.Context, sessionID string) map[string]string {
	if sessionID == "" {
		return nil
	}

	old, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !apperrors.IsNotFound(err) && s.logger != nil {
			s.logger.WarnContext(ctx, "could not read pre-login session", "session_id", sessionID, "error", err)
		}
		return nil
	}

	attrs := make(map[string]string, len(old.Attributes))
	for k, v := range old.Attributes {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

// rotateSession creates and populates the post-login session before the old
// one is destroyed, so a crash between the two steps strands an extra session
// rather than logging the user out. The new session is destroyed again if a
// later step fails.
func (s *AuthService) rotateSession(ctx context.Context, username, oldID string, attrs map[string]string) (domainauth.Session, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return domainauth.Session{}, err
	}

	if sess.Attributes == nil {
		sess.Attributes = make(map[string]string, len(attrs)+1)
	}
	for k, v := range attrs {
		sess.Attributes[k] = v
	}
	sess.Attributes[domainauth.AttrUID] = username

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.discardSession(ctx, sess.ID)
		return domainauth.Session{}, err
	}

	if s.registry != nil {
		// The registry is an audit trail; losing one append does not fail
		// the login.
		if err := s.registry.Append(ctx, username, sess.ID); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "session registry append failed", "username", username, "error", err)
		}
	}

	if oldID != "" {
		if err := s.sessions.Destroy(ctx, oldID); err != nil {
			// The old identifier must be dead once login returns, otherwise
			// a fixated identifier stays live.
			s.discardSession(ctx, sess.ID)
			return domainauth.Session{}, err
		}
		s.invalidateSubject(ctx, oldID)
	}

	return sess, nil
}

func (s *AuthService) discardSession(ctx context.Context, id string) {
	if err := s.sessions.Destroy(ctx, id); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "could not discard session", "session_id", id, "error", err)
	}
}

// GetSession fetches a live session and touches its last-access time.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.NotFound("Session not found")
	}
	return s.sessions.Get(ctx, sessionID)
}

// StartSession creates a fresh anonymous session.
func (s *AuthService) StartSession(ctx context.Context) (domainauth.Session, error) {
	return s.sessions.Create(ctx)
}

// SetAttribute sets one attribute on a live session and drops any cached
// subject for it.
func (s *AuthService) SetAttribute(ctx context.Context, sessionID, key, value string) error {
	if err := s.sessions.SetAttribute(ctx, sessionID, key, value); err != nil {
		return err
	}
	s.invalidateSubject(ctx, sessionID)
	return nil
}

// GetAttribute reads one attribute from a live session; ("", nil) when absent.
func (s *AuthService) GetAttribute(ctx context.Context, sessionID, key string) (string, error) {
	return s.sessions.GetAttribute(ctx, sessionID, key)
}

// Logout destroys the session and its cached subject. Logging out an absent
// or already-destroyed session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return err
	}
	s.invalidateSubject(ctx, sessionID)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "logout", "session_id", sessionID)
	}
	return nil
}

// Subject is the cached security context derived from a session.
type Subject struct {
	UID        string `json:"uid"`
	Remembered bool   `json:"remembered"`
}

// Subject resolves the security context for a session id, serving from the
// security cache when possible. The cache entry lives in its own key
// namespace and expires independently of the session.
func (s *AuthService) Subject(ctx context.Context, sessionID string) (Subject, error) {
	if s.cache != nil {
		if blob, err := s.cache.Get(ctx, sessionID); err == nil && blob != nil {
			var sub Subject
			if jsonErr := json.Unmarshal(blob, &sub); jsonErr == nil {
				return sub, nil
			}
			// A corrupt entry is dropped and rebuilt from the session.
			_ = s.cache.Delete(ctx, sessionID)
		}
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Subject{}, err
	}

	sub := Subject{UID: sess.UID()}
	if s.cache != nil {
		if blob, err := json.Marshal(sub); err == nil {
			if putErr := s.cache.Put(ctx, sessionID, blob, s.subjectTTL); putErr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "subject cache put failed", "session_id", sessionID, "error", putErr)
			}
		}
	}
	return sub, nil
}

func (s *AuthService) invalidateSubject(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "subject cache delete failed", "session_id", sessionID, "error", err)
	}
}

// IssueRememberMe creates a remember-me token for username.
func (s *AuthService) IssueRememberMe(ctx context.Context, username string) (string, error) {
	if s.rememberMe == nil {
		return "", errors.New("remember-me is not configured")
	}
	return s.rememberMe.Issue(ctx, username)
}

// RedeemRememberMe resolves a remember-me token to its username.
// apperrors.NotFound for unknown or expired tokens.
func (s *AuthService) RedeemRememberMe(ctx context.Context, token string) (string, error) {
	if s.rememberMe == nil {
		return "", apperrors.NotFound("Remember-me token not found")
	}
	return s.rememberMe.Redeem(ctx, token)
}

// RevokeRememberMe invalidates a remember-me token. Revoking an absent token
// is not an error.
func (s *AuthService) RevokeRememberMe(ctx context.Context, token string) error {
	if s.rememberMe == nil || token == "" {
		return nil
	}
	return s.rememberMe.Revoke(ctx, token)
}

func (s *AuthService) emitLogin(result string, err error) {
	metrics.EmitLoginAttempt(s.metrics, metrics.LoginMetric{Result: result, Err: err})
}
