package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/response"
)

// Recovery turns a panic into a 500 envelope. The stack is logged, never sent.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				response.Error(c, apperrors.Wrap(fmt.Errorf("panic: %v", r), "panic recovered"))
			}
		}()
		c.Next()
	}
}
