package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// IdentityHeader carries the verified email installed by the OAuth front
// end. The portal trusts this header only because the deployment places the
// login proxy in front of every request.
const IdentityHeader = "X-Auth-Email"

// Response body markers forming the observable authorization contract.
const (
	ReasonNotAuthenticated = "not_authenticated"
	ReasonForbidden        = "forbidden"
	ReasonMissingCourseID  = "missing_course_id"
	ReasonServerError      = "server_error"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// Identity extracts the caller's verified email, lower-cases it, and stores
// it on the request context. Requests without an identity pass through; the
// guards decide whether that matters.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.GetHeader(IdentityHeader)))
		if email != "" {
			c.Set(IdentityKey, email)
			if reqCtx := GetRequestContext(c); reqCtx != nil {
				reqCtx.Identity = email
			}
		}

		c.Next()
	}
}

// GetIdentity retrieves the authenticated email from context.
func GetIdentity(c *gin.Context) string {
	if val, exists := c.Get(IdentityKey); exists {
		if email, ok := val.(string); ok {
			return email
		}
	}
	return ""
}

// GetResolvedRole retrieves the role attached by an admin-like guard so
// handlers can distinguish admin from vaad without re-resolving.
func GetResolvedRole(c *gin.Context) (domain.Role, bool) {
	if val, exists := c.Get(ResolvedRoleKey); exists {
		if role, ok := val.(domain.Role); ok {
			return role, true
		}
	}
	return "", false
}

// RequireAuthenticated rejects requests that carry no identity.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, ReasonNotAuthenticated))
			return
		}

		c.Next()
	}
}

// RequireAdminLike passes admin and vaad callers, attaching the resolved
// role to the context. Students get forbidden.
func RequireAdminLike(resolver *usecase.RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, ReasonNotAuthenticated))
			return
		}

		role := resolver.Resolve(c.Request.Context(), identity)
		if !role.AdminLike() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, ReasonForbidden))
			return
		}

		c.Set(ResolvedRoleKey, role)
		c.Next()
	}
}

// RequireAdminOnly passes only admin callers.
func RequireAdminOnly(resolver *usecase.RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, ReasonNotAuthenticated))
			return
		}

		role := resolver.Resolve(c.Request.Context(), identity)
		if role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, ReasonForbidden))
			return
		}

		c.Set(ResolvedRoleKey, role)
		c.Next()
	}
}

// RequireCourseScopeOrAdmin passes global admin/vaad callers outright and
// otherwise requires a course-scoped grant covering the course named by the
// route parameter. A scope-lookup fault is a server error, never an
// implicit deny or grant.
func RequireCourseScopeOrAdmin(resolver *usecase.RoleResolver, access *usecase.CourseAccessService, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, ReasonNotAuthenticated))
			return
		}

		courseID := strings.TrimSpace(c.Param(param))
		if courseID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				newErrorResponse(c, ReasonMissingCourseID))
			return
		}

		role := resolver.Resolve(c.Request.Context(), identity)
		if role.AdminLike() {
			c.Set(ResolvedRoleKey, role)
			c.Next()
			return
		}

		ok, err := access.HasCourseAccess(c.Request.Context(), identity, courseID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, ReasonServerError))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, ReasonForbidden))
			return
		}

		c.Next()
	}
}
