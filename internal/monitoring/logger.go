package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured JSON logging for the analysis service.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AnalysisLogger logs one completed analysis run.
func (l *Logger) AnalysisLogger(runID string, documentLength int, score, confidence float64, recommendation string, degraded int, duration time.Duration, cacheHit bool) {
	l.Info("Analysis Completed",
		"run_id", runID,
		"document_length", documentLength,
		"overall_score", score,
		"confidence", confidence,
		"recommendation", recommendation,
		"degraded_categories", degraded,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// CategoryLogger logs one category agent result.
func (l *Logger) CategoryLogger(runID, category string, score, confidence float64, fallback bool, duration time.Duration) {
	l.Info("Category Analyzed",
		"run_id", runID,
		"category", category,
		"score", score,
		"confidence", confidence,
		"fallback", fallback,
		"duration_ms", duration.Milliseconds(),
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

// PerformanceLogger logs performance metrics
func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Info("Performance Metric",
		"metric", metric,
		"value", value,
		"unit", unit,
		"timestamp", time.Now().Format(time.RFC3339),
	)
}

var startTime = time.Now()
