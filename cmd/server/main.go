package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/venturelens/pitchmeter/internal/agents"
	"github.com/venturelens/pitchmeter/internal/cache"
	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/errors"
	"github.com/venturelens/pitchmeter/internal/llm"
	"github.com/venturelens/pitchmeter/internal/monitoring"
	"github.com/venturelens/pitchmeter/internal/resilience"
	"github.com/venturelens/pitchmeter/internal/scoring"
	"github.com/venturelens/pitchmeter/internal/security"
	"github.com/venturelens/pitchmeter/internal/types"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(getEnvOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	tables, err := config.LoadTables(cfg.TablesPath)
	if err != nil {
		slog.Error("Failed to load reference tables", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()
	breakers := resilience.NewCircuitBreakerRegistry()

	clients := buildClients(context.Background(), cfg, breakers, appMetrics)

	backend := scoring.StdBackend{}
	scorer := scoring.NewScorer(cfg.Scoring.OutlierThreshold)
	probModel := scoring.NewProbabilityModel(cfg.Scoring.Probability, backend)
	benchEngine := scoring.NewBenchmarkEngine(tables.CohortStore(), backend)
	normalizer := scoring.NewNormalizer(scoring.Method(cfg.Scoring.NormalizationMethod), tables.References, backend)
	metricBench := tables.MetricBenchmarks()

	orchestrator := agents.NewOrchestrator(
		agents.NewAgents(clients, cfg.Scoring),
		scorer,
		probModel,
		benchEngine,
		normalizer,
		logger,
	)

	r := gin.New()
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.MaxRequestsPerMin = int(cfg.Server.RateLimitRPS * 60)
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)
	securityMiddleware.OnIPBlock = appMetrics.IncrementRateLimitIPBlock

	r.Use(security.SecurityHeadersMiddleware())
	r.Use(securityMiddleware.TimeoutMiddleware())
	r.Use(securityMiddleware.RateLimitByIP)

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsConfig))

	appCache := cache.New(cfg.Server.CacheTTL())
	r.Use(appCache.Middleware(appMetrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"timestamp":        time.Now().Format(time.RFC3339),
			"version":          "1.0.0",
			"metrics":          appMetrics.GetStats(),
			"circuit_breakers": breakers.GetStats(),
			"cache":            appCache.Stats(),
		})
	})

	api := r.Group("/api/v1")

	api.POST("/analyze", func(c *gin.Context) {
		var req types.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		if err := securityMiddleware.ValidateDocument(req.DocumentText); err != nil {
			appErr := errors.NewValidationError(err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		report := orchestrator.Analyze(c.Request.Context(), agents.AnalyzeRequest{
			DocumentText: securityMiddleware.SanitizeDocument(req.DocumentText),
			Sector:       req.Sector,
			Stage:        req.Stage,
			Preferences: agents.Preferences{
				Weights:         req.Weights,
				MinOverallScore: req.MinScore,
				RiskTolerance:   req.RiskAppetite,
			},
		})

		appMetrics.IncrementAnalysis()
		for range report.DegradedCategories {
			appMetrics.IncrementFallback()
		}
		appLogger.AnalysisLogger(report.RunID, len(req.DocumentText), report.OverallScore,
			report.Confidence, report.Recommendation, len(report.DegradedCategories),
			time.Since(start), false)

		c.JSON(http.StatusOK, report)
	})

	api.POST("/analyze/:category", func(c *gin.Context) {
		category := agents.Category(c.Param("category"))

		var req types.CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		if err := securityMiddleware.ValidateDocument(req.DocumentText); err != nil {
			appErr := errors.NewValidationError(err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		result, err := orchestrator.AnalyzeCategory(c.Request.Context(), category,
			securityMiddleware.SanitizeDocument(req.DocumentText), req.Sector)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appLogger.CategoryLogger("", string(category), result.Score, result.Confidence,
			result.Fallback, result.ProcessingTime)
		c.JSON(http.StatusOK, result)
	})

	api.POST("/benchmarks", func(c *gin.Context) {
		var req types.BenchmarkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		c.JSON(http.StatusOK, benchEngine.Compare(req.Scores, req.Vertical, req.Stage))
	})

	api.POST("/benchmarks/metrics", func(c *gin.Context) {
		var req types.MetricBenchmarkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		c.JSON(http.StatusOK, metricBench.Compare(req.Metrics, req.Industry, req.Stage))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "samplers", len(clients))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// buildClients assembles the sampler ensemble. Without an API key the service
// runs against the canned offline client and marks every result as mock.
func buildClients(ctx context.Context, cfg *config.Config, breakers *resilience.CircuitBreakerRegistry, metrics *monitoring.Metrics) []llm.Client {
	if cfg.LLM.APIKey == "" {
		slog.Warn("No LLM API key configured, serving mock analyses")
		return []llm.Client{&llm.MockClient{SamplerName: "mock"}}
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.LLM.RequestsPerMin)/60.0), cfg.LLM.RequestsPerMin)

	clients := make([]llm.Client, 0, len(cfg.LLM.Temperatures))
	for i, temp := range cfg.LLM.Temperatures {
		inner, err := llm.NewOpenAIClient(ctx, llm.OpenAIConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: temp,
		})
		if err != nil {
			slog.Error("Failed to initialize sampler", "index", i, "error", err)
			continue
		}

		breaker := breakers.GetOrCreate(inner.Name(), resilience.CircuitBreakerConfig{})
		breaker.OnOpen = metrics.IncrementCircuitBreakerOpen
		breaker.OnClose = metrics.IncrementCircuitBreakerClose

		bounded := llm.NewBoundedClient(inner, limiter, cfg.LLM.Timeout())
		clients = append(clients, llm.NewResilientClient(bounded, breaker, metrics))
	}

	if len(clients) == 0 {
		slog.Warn("All samplers failed to initialize, serving mock analyses")
		return []llm.Client{&llm.MockClient{SamplerName: "mock"}}
	}
	return clients
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
