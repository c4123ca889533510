package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/billing_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// AnalyticsEventName derives an event name from a route template,
// e.g. "/api/v1/invoices/:invoiceID/items" with POST -> "post_invoices_invoiceID_items".
func AnalyticsEventName(method, fullPath string) string {
	path := strings.TrimPrefix(fullPath, "/api/v1")
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	path = strings.ReplaceAll(path, ":", "")
	path = strings.ReplaceAll(path, "/", "_")
	return strings.ToLower(method) + "_" + path
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful API calls with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := AnalyticsEventName(c.Request.Method, c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent sends a custom event for the authenticated user from a handler
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() {
		return
	}

	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()

	posthogClient.Enqueue(userID, eventName, properties)
}
