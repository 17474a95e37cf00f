package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/utils"
)

// RequestMetrics records count and latency for every request, labelled by route template
// so ids in paths do not explode label cardinality.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		utils.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
