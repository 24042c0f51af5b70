package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDHeader  = "X-Trace-ID"
	ContextTraceID = "trace_id"
)

// TraceIDMiddleware reuses a caller-supplied trace id when it is a UUID, so a
// frontend or proxy can correlate its logs with ours. Anything else is replaced.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(ContextTraceID, traceID)
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Next()
	}
}
