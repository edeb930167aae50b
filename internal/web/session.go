package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-demo/internal/logger"
)

const (
	sessionCookie = "storefront_session"
	sessionMaxAge = 365 * 24 * time.Hour
)

type sessionKey struct{}

// Session gives every browser a stable id, its cart lives in its own slot.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionFromCookie(r)
			if !ok {
				id = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    id.String(),
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func SessionIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionKey{}).(uuid.UUID)
	return id, ok
}

func SlotFor(base string, sessionID uuid.UUID) string {
	return base + ":" + sessionID.String()
}
