package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campneus/cofre/internal/api/metrics"
	"github.com/campneus/cofre/internal/core/policy"
)

// RBAC enforces role-based access control at the route level. Unknown role
// strings never match an allowed role, so they fall through to the deny path.
func RBAC(allowedRoles ...policy.Role) echo.MiddlewareFunc {
	allowed := make(map[policy.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			role, ok := policy.ParseRole(raw)
			if !ok {
				metrics.AuthzDenialsTotal.WithLabelValues("route").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			if _, ok := allowed[role]; !ok {
				metrics.AuthzDenialsTotal.WithLabelValues("route").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return next(c)
		}
	}
}
