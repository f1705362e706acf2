package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/logging"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(ctxKeySession).(*core.Session)
	return sess
}

// withSession resolves the session cookie. With create set, a missing or
// expired session is replaced by a new one; otherwise the request fails
// with ErrSessionNotFound.
func (s *Server) withSession(create bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.lookupSession(r)
			if err != nil && create {
				sess, err = s.service.Open(r.Context())
				if err == nil {
					s.setSessionCookie(w, sess.ID)
					logging.FromContext(r.Context()).Debug("session cookie issued", "session_id", sess.ID)
				}
			}
			if err != nil {
				respondError(w, r, err, statusFor(err))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			ctx = core.ContextWithSessionID(ctx, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) lookupSession(r *http.Request) (*core.Session, error) {
	c, err := r.Cookie(s.cfg.Session.CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.service.Get(c.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.Session.IdleTimeout.Seconds()),
	})
}
