package handler

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"pdf-toolkit/internal/domain"
)

// UserNameHeader carries the anonymous identity in both directions.
const UserNameHeader = "X-User-Name"

const maxUserNameLength = 64

var (
	nameAdjectives = []string{"Happy", "Lucky", "Clever", "Bright", "Swift"}
	nameNouns      = []string{"Panda", "Tiger", "Eagle", "Dolphin", "Fox"}
)

// GenerateUserName returns a name like "CleverFox417".
func GenerateUserName() string {
	return fmt.Sprintf("%s%s%d",
		nameAdjectives[rand.IntN(len(nameAdjectives))],
		nameNouns[rand.IntN(len(nameNouns))],
		rand.IntN(1000),
	)
}

func validUserName(name string) bool {
	if name == "" || len(name) > maxUserNameLength {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// IdentityMiddleware attaches an anonymous user name to every request. A
// client keeps its identity by echoing the header it was given.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get(UserNameHeader)
		if !validUserName(name) {
			name = GenerateUserName()
		}
		w.Header().Set(UserNameHeader, name)
		ctx := context.WithValue(r.Context(), userNameContextKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BodyLimitMiddleware caps request bodies at limit bytes. Zero disables it.
func BodyLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "Upload is too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"user", w.Header().Get(UserNameHeader),
			)
		})
	}
}

// RequireTool answers 404 for tools switched off in the catalog.
func RequireTool(catalog domain.ToolCatalog, toolID string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !catalog.IsActive(toolID) {
			writeError(w, http.StatusNotFound, domain.ErrToolUnavailable.Error())
			return
		}
		next(w, r)
	}
}

// AdminMiddleware requires X-Admin-Secret to match secret. An empty secret
// locks the routes entirely.
func AdminMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Admin-Secret")
			if secret == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
