package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"offerings-backend/internal/domain"
	"offerings-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Sessions are written by the identity service; this process only reads them.
const (
	SessionCookieName  = "offerings.sid"
	SessionRedisPrefix = "session:"
)

const (
	userLocal      = "user"
	sessionIDLocal = "session_id"
)

// SessionUser is the shape the identity service stores under "user".
type SessionUser struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	GuideID string `json:"guide_id,omitempty"`
}

// Actor converts the session user into the caller identity used by services.
// Unknown roles and malformed guide ids yield an anonymous actor.
func (u *SessionUser) Actor() domain.Actor {
	if u == nil {
		return domain.Actor{}
	}
	switch u.Role {
	case constants.Operator:
		return domain.Actor{UserID: u.UserID, Operator: true}
	case constants.Guide:
		id, err := uuid.Parse(u.GuideID)
		if err != nil {
			return domain.Actor{UserID: u.UserID}
		}
		return domain.Actor{UserID: u.UserID, GuideID: id}
	default:
		return domain.Actor{UserID: u.UserID}
	}
}

// SessionConfig for the Redis-backed session store shared with the identity service.
type SessionConfig struct {
	RedisURL string
}

// NewRedis opens the client used for sessions and health counters.
func NewRedis(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Session returns a Fiber middleware that loads the session user from Redis.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	rdb, err := NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return SessionWithClient(rdb), rdb, nil
}

// SessionWithClient is Session over an existing client.
func SessionWithClient(rdb redis.Cmdable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := sessionIDFrom(c)
		c.Locals(sessionIDLocal, sessionID)
		if sessionID == "" {
			return c.Next()
		}

		b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sessionID).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("session lookup failed")
			}
			return c.Next()
		}
		var data struct {
			User *SessionUser `json:"user"`
		}
		if err := json.Unmarshal(b, &data); err != nil {
			log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("malformed session payload")
			return c.Next()
		}
		if data.User != nil && constants.IsValidRole(data.User.Role) {
			c.Locals(userLocal, data.User)
		}
		return c.Next()
	}
}

// sessionIDFrom reads the cookie, accepting the signed "s:id.signature" form.
func sessionIDFrom(c *fiber.Ctx) string {
	sessionID := c.Cookies(SessionCookieName)
	if strings.HasPrefix(sessionID, "s:") {
		sessionID = strings.SplitN(sessionID[2:], ".", 2)[0]
	}
	return sessionID
}

// GetSessionID returns the current session ID from context.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// PutSession stores a session user. Used by tests and local tooling.
func PutSession(ctx context.Context, rdb redis.Cmdable, sessionID string, u SessionUser) error {
	b, err := json.Marshal(map[string]interface{}{"user": u})
	if err != nil {
		return err
	}
	return rdb.Set(ctx, SessionRedisPrefix+sessionID, b, 0).Err()
}
