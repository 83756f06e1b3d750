// Package logging wraps zerolog for the gallery server: one global logger
// configured at startup plus a per-request logger carrying the correlation ID.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	CorrelationHeader = "X-Correlation-ID"

	correlationIDKey = "correlation_id"
	loggerKey        = "request_logger"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json | console
	Output io.Writer
}

func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Logger returns the global logger.
func Logger() *zerolog.Logger { return &log }

func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Debug() *zerolog.Event { return log.Debug() }
func Fatal() *zerolog.Event { return log.Fatal() }

// Middleware assigns a correlation ID, stores a request-scoped logger on the
// gin context and logs one line per finished request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationHeader, id)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reqLog := log.With().
			Str("correlation_id", id).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &reqLog)

		start := time.Now()
		c.Next()

		ev := reqLog.Info()
		if c.Writer.Status() >= 500 {
			ev = reqLog.Error()
		}
		if uid := c.GetUint("user_id"); uid != 0 {
			ev = ev.Uint("user_id", uid)
		}
		ev.Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// FromContext returns the request logger, or the global one outside a request.
func FromContext(c *gin.Context) *zerolog.Logger {
	if c != nil {
		if v, ok := c.Get(loggerKey); ok {
			if l, ok := v.(*zerolog.Logger); ok {
				return l
			}
		}
	}
	return &log
}

func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}
