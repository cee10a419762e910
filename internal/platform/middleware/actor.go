package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const actorKey contextKey = "actor_id"

// Actor resolves the acting user for audit attribution. The identity system
// lives outside this service, so the actor arrives either as the subject of
// a bearer token (verified against secret when one is configured) or as a
// plain X-Actor-ID header. Requests without a resolvable actor proceed with
// a nil actor; write handlers decide whether that is acceptable.
func Actor(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := resolveActor(c, secret)
			if actor != uuid.Nil {
				ctx := context.WithValue(c.Request().Context(), actorKey, actor)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

func resolveActor(c echo.Context, secret string) uuid.UUID {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") && secret != "" {
		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err == nil && token.Valid {
			if sub, err := token.Claims.GetSubject(); err == nil {
				if id, err := uuid.Parse(sub); err == nil {
					return id
				}
			}
		}
	}

	if hdr := c.Request().Header.Get("X-Actor-ID"); hdr != "" {
		if id, err := uuid.Parse(hdr); err == nil {
			return id
		}
	}

	return uuid.Nil
}

// ActorFromContext returns the resolved actor ID, or uuid.Nil when the
// request carried none.
func ActorFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(actorKey).(uuid.UUID)
	return id
}
