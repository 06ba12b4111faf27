package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// routeEvents names the analytics event for routes that change points or the catalog.
// Other authenticated routes fall back to a name derived from the route template.
var routeEvents = map[string]string{
	"POST /api/v1/rewards/redeem":              "reward_redeemed",
	"POST /api/v1/listings":                    "listing_created",
	"POST /api/v1/listings/:listingID/reviews": "listing_reviewed",
	"PUT /api/v1/accounts/me":                  "profile_updated",
	"POST /api/v1/admin/points/grant":          "admin_points_granted",
	"POST /api/v1/admin/rewards":               "admin_reward_created",
	"PUT /api/v1/admin/rewards/:rewardID":      "admin_reward_updated",
	"DELETE /api/v1/admin/rewards/:rewardID":   "admin_reward_deactivated",
}

// eventName returns the analytics event for a matched route, or "" when it has none.
func eventName(method, fullPath string) string {
	if fullPath == "" {
		return ""
	}
	if name, ok := routeEvents[method+" "+fullPath]; ok {
		return name
	}
	// "/api/v1/rewards" -> "get_api_v1_rewards"
	name := strings.ToLower(method) + "_" + strings.TrimPrefix(fullPath, "/")
	name = strings.NewReplacer("/", "_", ":", "").Replace(name)
	return name
}

// PosthogMiddleware tracks successful authenticated requests in PostHog, keyed by account id.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		p, ok := GetPrincipalFromContext(c)
		if !ok {
			return
		}
		event := eventName(c.Request.Method, c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
			"role":        string(p.Role),
			"is_admin":    p.IsAdmin,
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}
		posthogClient.Enqueue(p.AccountID, event, props)
	}
}
