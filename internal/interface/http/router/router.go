// Package router assembles the gin engine: middleware chain, API routes and
// the operational endpoints (/ping, /metrics, /swagger).
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/fabric-inventory/docs"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/handler"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/idempotency"
	"github.com/xiebiao/fabric-inventory/pkg/response"
)

// Options switches the optional parts of the engine.
type Options struct {
	CORSOrigins []string
	MetricsPath string // empty disables /metrics
	Swagger     bool
	// Idempotency enables Idempotency-Key handling on POST routes when non-nil.
	Idempotency idempotency.Store
}

// New builds the engine.
//
// Middleware order matters:
//
//	RequestID → Tracing → Logger → Recovery → Metrics → CORS → (route) → Idempotency → handler
//
// Logger sits outside Recovery so recovered panics are logged as 500, and
// CORS sits before routing so preflight requests never reach the 405 handler.
func New(log *zap.Logger, opts Options, rolls *handler.RollHandler, sales *handler.SaleHandler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(opts.CORSOrigins),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, apperrors.ErrMethodNotAllowed)
	})

	// Health check
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	// http://localhost:8080/swagger/index.html
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var idem gin.HandlerFunc
	if opts.Idempotency != nil {
		idem = middleware.Idempotency(opts.Idempotency, log)
	}
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if idem == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{idem, h}
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/rolls", write(rolls.AddRoll)...)
		v1.GET("/inventory", rolls.ListInventory)
		v1.POST("/sales", write(sales.RegisterSale)...)
	}

	return r
}
