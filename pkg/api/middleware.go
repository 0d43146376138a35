package api

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware 使用应用日志器记录每个请求
func LoggerMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		fullPath := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			fullPath += "?" + rawQuery
		}

		c.Next()

		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			var errMsgs []string
			for _, e := range c.Errors {
				errMsgs = append(errMsgs, e.Error())
			}
			logger.Printf("ERROR: %s %s -> %d (%v) %s", c.Request.Method, fullPath, status, time.Since(start), strings.Join(errMsgs, "; "))
			return
		}
		logger.Printf("%s %s -> %d (%v) from %s", c.Request.Method, fullPath, status, time.Since(start), c.ClientIP())
	}
}
