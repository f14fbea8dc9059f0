package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

const accessKey = "access"

// TokenVerifier is the slice of the firebase auth client the middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Access is the per-request authorization context: who is signed in, whether
// the council has approved them, and their role. Derived once per request;
// every gated handler reads it from here instead of re-checking on its own.
type Access struct {
	Token   *auth.Token
	Profile *model.Profile
	Role    model.Role
}

func (a *Access) SignedIn() bool {
	return a.Token != nil
}

func (a *Access) Approved() bool {
	return a.Profile != nil && a.Profile.IsApproved
}

func (a *Access) UserId() string {
	if a.Token == nil {
		return ""
	}
	return a.Token.UID
}

type AuthConfig struct {
	SessionNotRequired bool
	ProfileNotRequired bool
}

func GenAuth(database db.Database, verifier TokenVerifier, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := &Access{Role: model.RoleMember}
		c.Set(accessKey, access)

		authorizationHeader, ok := c.Request.Header["Authorization"]
		if !ok || len(authorizationHeader) == 0 {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "no authorization header")
			return
		}
		if strings.Index(authorizationHeader[0], "Bearer ") != 0 || len(authorizationHeader[0]) < 8 {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "incorrectly formatted authorization header")
			return
		}
		token, err := verifier.VerifyIDToken(c, authorizationHeader[0][7:])
		if err != nil {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}
		access.Token = token

		profile, err := database.GetProfile(c, token.UID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "database error",
			})
			c.Abort()
			return
		}
		if profile == nil && !config.ProfileNotRequired {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "must have a user profile",
			})
			c.Abort()
			return
		}
		access.Profile = profile

		// a missing role row means member; a failed lookup also degrades to
		// member rather than granting anything
		role, err := database.GetRole(c, token.UID)
		if err != nil {
			log.Warn().Err(err).Str("userId", token.UID).Msg("role lookup failed, treating as member")
			role = model.RoleMember
		}
		access.Role = role
	}
}

// RequireApproved refuses unauthenticated or unapproved callers before the
// handler runs.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := GetAccess(c)
		if !access.SignedIn() {
			abortUnauthorized(c, "must be signed in")
			return
		}
		if !access.Approved() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "account pending council approval",
			})
			c.Abort()
		}
	}
}

// RequireSteward refuses everyone but council members, approved or not.
func RequireSteward() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := GetAccess(c)
		if !access.SignedIn() {
			abortUnauthorized(c, "must be signed in")
			return
		}
		switch access.Role {
		case model.RoleSteward:
			return
		case model.RoleMember:
		}
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "council members only",
		})
		c.Abort()
	}
}

func GetAccess(c *gin.Context) *Access {
	value, ok := c.Get(accessKey)
	if !ok {
		return &Access{Role: model.RoleMember}
	}
	return value.(*Access)
}

func MustGetProfile(c *gin.Context) *model.Profile {
	return GetAccess(c).Profile
}

// GetUserIdMaybe returns the empty string when no session is present.
func GetUserIdMaybe(c *gin.Context) string {
	return GetAccess(c).UserId()
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}
