package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
)

// sessionCookie names the cookie carrying the filter session ID.
const sessionCookie = "facetview_session"

type sessionKey struct{}

// withSession binds a filter session to the request. A request without a
// valid session cookie gets a new session switched to the default dataset.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *core.Session
		if c, err := r.Cookie(sessionCookie); err == nil {
			sess, _ = s.store.Get(c.Value)
		}

		if sess == nil {
			sess = s.store.Create()
			http.SetCookie(w, s.newSessionCookie(sess.ID()))

			ctx := logging.WithSession(r.Context(), sess.ID())
			if _, err := s.switchDataset(ctx, sess, s.cfg.Datasets.DefaultID()); err != nil {
				logging.FromContext(ctx).Warn("default dataset not registered", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = logging.WithSession(ctx, sess.ID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) newSessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// switchDataset loads id and installs it in sess.
//
// Only an unregistered id is returned as an error, and sess is then left
// unchanged. A load failure is recorded in the returned Snapshot.
func (s *Server) switchDataset(ctx context.Context, sess *core.Session, id string) (core.Snapshot, error) {
	// The load outlives a client that disconnects mid-switch.
	ds, err := s.loader.Load(context.WithoutCancel(ctx), id)
	if errors.Is(err, core.ErrUnknownDataset) {
		return sess.Snapshot(), err
	}

	snap := sess.SwitchDataset(id, ds, err)
	logging.FromContext(ctx).Info("dataset switched",
		"dataset", id,
		"version", snap.Version,
		"available", snap.Available(),
	)
	return snap, nil
}

// sessionFrom returns the session bound by withSession.
func sessionFrom(ctx context.Context) (*core.Session, error) {
	sess, ok := ctx.Value(sessionKey{}).(*core.Session)
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess, nil
}

// urlParam returns the decoded route parameter.
func urlParam(r *http.Request, name string) string {
	param := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(param); err == nil {
			return v
		}
	}
	return param
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
