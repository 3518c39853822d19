package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole はAuthJWTがcontextに入れたroleを確認する。
// roleが無ければ401、違うroleなら403。
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || got == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if got != role {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}

// 管理者だけ許可
func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin)
}
