package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/models"
)

// Session value keys. The browser only ever sees the opaque session token;
// these values live server-side.
const (
	sessionKeyRole       = "role"
	sessionKeyUserID     = "user_id"
	sessionKeyName       = "display_name"
	sessionKeyDepartment = "department"
)

// Login entry points per role, used when an unauthenticated or wrong-role
// request hits a protected page.
const (
	StudentLoginPath = "/student"
	TeacherLoginPath = "/teacher"
)

// Identity is the trust record a session binds to a browser.
type Identity struct {
	Role       models.Role
	ID         string
	Name       string
	Department string
}

// EstablishSession binds an authenticated identity to the caller's session,
// replacing whatever was there before.
func EstablishSession(c *gin.Context, id Identity) error {
	session := sessions.Default(c)
	session.Set(sessionKeyRole, string(id.Role))
	session.Set(sessionKeyUserID, id.ID)
	session.Set(sessionKeyName, id.Name)
	session.Set(sessionKeyDepartment, id.Department)
	return session.Save()
}

// ClearSession drops all session state. Clearing an absent session succeeds.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// CurrentIdentity returns the identity bound to the request's session, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	session := sessions.Default(c)

	role, ok := session.Get(sessionKeyRole).(string)
	if !ok || role == "" {
		return Identity{}, false
	}
	id, ok := session.Get(sessionKeyUserID).(string)
	if !ok || id == "" {
		return Identity{}, false
	}

	name, _ := session.Get(sessionKeyName).(string)
	dept, _ := session.Get(sessionKeyDepartment).(string)

	return Identity{
		Role:       models.Role(role),
		ID:         id,
		Name:       name,
		Department: dept,
	}, true
}

// RequireRole guards a route group: without a session of the required role the
// request is redirected to that role's login page, never answered with an
// error page.
func RequireRole(role models.Role) gin.HandlerFunc {
	loginPath := StudentLoginPath
	if role == models.RoleTeacher {
		loginPath = TeacherLoginPath
	}

	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok || identity.Role != role {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
