package handler

import (
	"bank-account-service/config"
	"bank-account-service/internal/adapter/http/middleware"
	"bank-account-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc     ports.AccountService
	BalanceSvc     ports.BalanceService
	LockoutSvc     ports.LockoutService
	HistorySvc     ports.HistoryService
	TokenSvc       ports.TokenService
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	RateLimit      config.RateLimitConfig
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules(deps.RateLimit)
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	accountHandler := NewAccountHandler(deps.AccountSvc)
	balanceHandler := NewBalanceHandler(deps.BalanceSvc)
	lockoutHandler := NewLockoutHandler(deps.LockoutSvc)
	txHandler := NewTransactionHandler(deps.HistorySvc)

	accounts := v1.Group("/accounts")
	{
		accounts.GET("", rl(middleware.GroupReads), accountHandler.List)
		accounts.POST("", rl(middleware.GroupWrites), accountHandler.Create)
		accounts.GET("/:country_id", rl(middleware.GroupReads), accountHandler.Get)
		accounts.DELETE("/:country_id", rl(middleware.GroupWrites), accountHandler.Delete)

		accounts.PUT("/:country_id/deposit", rl(middleware.GroupCredentials), balanceHandler.Deposit)
		accounts.PUT("/:country_id/withdraw", rl(middleware.GroupCredentials), balanceHandler.Withdraw)
		accounts.POST("/:country_id/transfer", rl(middleware.GroupCredentials), balanceHandler.Transfer)

		accounts.POST("/:country_id/verify", rl(middleware.GroupCredentials), lockoutHandler.Verify)
		accounts.PUT("/:country_id/lock", rl(middleware.GroupWrites), lockoutHandler.Lock)
		accounts.PUT("/:country_id/unlock", rl(middleware.GroupWrites), lockoutHandler.Unlock)
		accounts.GET("/:country_id/status", rl(middleware.GroupReads), lockoutHandler.Status)

		accounts.GET("/:country_id/transactions", rl(middleware.GroupReads), txHandler.History)
		accounts.GET("/:country_id/transactions/recent", rl(middleware.GroupReads), txHandler.Recent)
		accounts.GET("/:country_id/transactions/summary", rl(middleware.GroupReads), txHandler.Summary)
	}

	v1.GET("/transactions/:transaction_id", rl(middleware.GroupReads), txHandler.Get)

	return r
}
