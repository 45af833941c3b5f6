package middleware

import (
	"errors"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/constants"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/services"
)

// sessionRenewAfter limits how often an active session is written back.
const sessionRenewAfter = time.Minute

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetUser(id uint64) (*models.User, error)
}

// StartSession stores the login in the session. Call before writing the response.
func StartSession(c *gin.Context, userID uint64) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.SessionKeyUserID, userID)
	session.Set(constants.SessionKeyLastSeen, time.Now().Unix())
	return session.Save()
}

// EndSession forgets the login and expires the cookie.
func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// RequireAuth checks if the user is authenticated via session.
// Sessions idle for longer than maxAge are discarded; active ones are renewed.
func RequireAuth(users UserLookup, maxAge time.Duration) gin.HandlerFunc {
	if maxAge <= 0 {
		maxAge = constants.DefaultSessionMaxAge
	}
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUint64(session.Get(constants.SessionKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		now := time.Now()
		lastSeen, _ := session.Get(constants.SessionKeyLastSeen).(int64)
		if lastSeen == 0 || now.Sub(time.Unix(lastSeen, 0)) > maxAge {
			_ = EndSession(c)
			apierrors.Unauthorized(c, "Session expired")
			c.Abort()
			return
		}

		user, err := users.GetUser(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				_ = EndSession(c)
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.Unexpected(c, err)
			}
			c.Abort()
			return
		}
		if !user.CanAuthenticate() {
			_ = EndSession(c)
			apierrors.UnauthorizedWithCode(c, apierrors.ErrCodePendingApproval, "Account is waiting for approval")
			c.Abort()
			return
		}

		if now.Sub(time.Unix(lastSeen, 0)) > sessionRenewAfter {
			session.Set(constants.SessionKeyLastSeen, now.Unix())
			if err := session.Save(); err != nil {
				log.WithError(err).WithField("user_id", userID).Warn("Failed to renew session")
			}
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireAdmin allows only admins. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			apierrors.Forbidden(c, "Only admins can perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
