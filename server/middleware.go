package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tourney/domain"
	"tourney/domain/entities"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type actorKey struct{}

// actorFrom returns the actor resolved by resolveActor
func actorFrom(ctx context.Context) entities.Actor {
	actor, _ := ctx.Value(actorKey{}).(entities.Actor)
	return actor
}

// requestLogger logs one line per request and records request metrics
// against the matched route pattern
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			entry := log.WithFields(log.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    status,
				"duration":  duration.String(),
				"requestID": middleware.GetReqID(r.Context()),
				"remote":    r.RemoteAddr,
			})
			if status >= http.StatusInternalServerError {
				entry.Warn("Request failed")
			} else {
				entry.Debug("Request handled")
			}

			if s.metrics != nil {
				s.metrics.RecordHTTPRequest(r.Method, route, status, duration)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

// resolveActor loads the user named by the verified token. The admin flag
// is read from the store so revoking it takes effect immediately.
func (s *Server) resolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Error: "Invalid session"})
			return
		}
		userID, ok := claimInt64(claims["user_id"])
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Error: "Invalid session"})
			return
		}

		actor, err := s.platform.Actor(r.Context(), userID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Error: "Invalid session"})
				return
			}
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).IsAdmin {
			writeError(w, r, domain.ErrNotAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// claimInt64 reads a numeric claim. Decoded tokens carry JSON numbers as
// float64.
func claimInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case int:
		return int64(n), n > 0
	case json.Number:
		i, err := n.Int64()
		return i, err == nil && i > 0
	default:
		return 0, false
	}
}
