// Package auth owns the cookie session: who is signed in as a member,
// whether the admin session is active, and the middleware/guards the
// feature routers hang off.
//
// The session stores only the user id. Every request re-fetches the
// account so status changes (an admin suspending someone) take effect on
// their next request, not their next login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAdminKey = "is_admin"
	userIDKey  = "user_id"
	userName   = "user_name"
)

// SessionUser is what we cache in the request context for a signed-in
// member.
type SessionUser struct {
	ID       string
	Username string
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	adminKey       ctxKey = "isAdmin"
)

// UserFetcher loads a fresh user record for the id held in the session.
type UserFetcher func(ctx context.Context, id string) (*models.User, error)

// SessionManager wraps the cookie store and the session transitions.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	fetch UserFetcher
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. In production (secure=true)
// cookies are Secure + SameSite=None; in dev over http, Lax.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the store lookup used to refresh the session
// user on each request. Called once from bootstrap.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetch = f }

// Store exposes the underlying cookie store (logout needs its options).
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// GetSession returns the request's session, creating one if absent.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session transitions                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SignInUser establishes a member session for u.
func (m *SessionManager) SignInUser(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, _ := m.GetSession(r)
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Username
	return sess.Save(r, w)
}

// SignInAdmin establishes the admin session. Any member session in the
// same cookie is cleared: the admin session replaces it, never coexists
// with it.
func (m *SessionManager) SignInAdmin(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.GetSession(r)
	sess.Values[isAdminKey] = true
	delete(sess.Values, userIDKey)
	delete(sess.Values, userName)
	return sess.Save(r, w)
}

// SignOutUser clears the member session. Idempotent.
func (m *SessionManager) SignOutUser(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.GetSession(r)
	delete(sess.Values, userIDKey)
	delete(sess.Values, userName)
	return sess.Save(r, w)
}

// SignOutAdmin clears the admin session. Idempotent; an active member
// session (there should be none) is untouched.
func (m *SessionManager) SignOutAdmin(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.GetSession(r)
	delete(sess.Values, isAdminKey)
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context helpers                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// CurrentUser returns the signed-in member & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// IsAdmin reports whether the admin session is active.
func IsAdmin(r *http.Request) bool {
	v, _ := r.Context().Value(adminKey).(bool)
	return v
}

// WithTestUser injects a member into the request context. Test helper.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// WithTestAdmin marks the request context as an admin session. Test helper.
func WithTestAdmin(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), adminKey, true))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSession injects the member and/or admin flag into context. A member
// id whose account no longer exists or is no longer APPROVED is treated
// as signed out.
func (m *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.GetSession(r)
		if err != nil {
			// A cookie signed with a rotated key fails to decode; treat the
			// visitor as signed out and let a fresh session replace it.
			var scErr securecookie.Error
			if errors.As(err, &scErr) {
				m.log.Debug("session cookie rejected", zap.Error(err))
			}
		}

		if isAdmin, _ := sess.Values[isAdminKey].(bool); isAdmin {
			r = r.WithContext(context.WithValue(r.Context(), adminKey, true))
		}

		if id, _ := sess.Values[userIDKey].(string); id != "" {
			su := &SessionUser{ID: id, Username: getString(sess, userName)}
			if m.fetch != nil {
				u, err := m.fetch(r.Context(), id)
				if err != nil || u.Status != models.StatusApproved {
					next.ServeHTTP(w, r)
					return
				}
				su.Username = u.Username
			}
			r = withUser(r, su)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures a member is in context (set by LoadSession).
// Browsers are redirected to /login with a return URL; API callers get a
// plain 401.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))
		if wantsHTML(r) {
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// RequireAdmin ensures the admin session is active. Browsers are sent to
// the admin password page; API callers get 403.
func (m *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAdmin(r) {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
