package middleware

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	// accountIDKey is the key used to store the authenticated account's ID in the request context.
	accountIDKey = contextKey("accountID")
	roleKey      = contextKey("role")
	adminKey     = contextKey("isAdmin")
)

// Principal is the authenticated caller as described by the access token.
type Principal struct {
	AccountID string
	Role      domain.AccountRole
	IsAdmin   bool
}

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, p.AccountID)
	ctx = context.WithValue(ctx, roleKey, p.Role)
	return context.WithValue(ctx, adminKey, p.IsAdmin)
}

// GetAccountIDFromContext retrieves the authenticated account ID from the request context.
// It returns the account ID and a boolean indicating if it was found.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	accountID, ok := c.Request.Context().Value(accountIDKey).(string)
	if !ok || accountID == "" {
		return "", false
	}
	return accountID, true
}

// GetPrincipalFromContext retrieves the full authenticated caller.
func GetPrincipalFromContext(c *gin.Context) (Principal, bool) {
	ctx := c.Request.Context()
	accountID, ok := ctx.Value(accountIDKey).(string)
	if !ok || accountID == "" {
		return Principal{}, false
	}
	role, _ := ctx.Value(roleKey).(domain.AccountRole)
	isAdmin, _ := ctx.Value(adminKey).(bool)
	return Principal{AccountID: accountID, Role: role, IsAdmin: isAdmin}, true
}
