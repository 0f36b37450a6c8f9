// Package gormlogger writes gorm statements and errors to the zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/logger"
)

// Logger implements gorm's logger.Interface on top of the global zerolog logger.
type Logger struct {
	level         glogger.LogLevel
	slowThreshold time.Duration
	// log returns the logger to write to, the global one unless set.
	log func() *zerolog.Logger
}

var _ glogger.Interface = (*Logger)(nil)

// New creates a gorm logger from the sql log settings.
func New(cfg logger.SQL) *Logger {
	return &Logger{
		level:         ParseLevel(cfg.LogLevel),
		slowThreshold: time.Duration(cfg.SlowThresholdMs) * time.Millisecond,
		log:           func() *zerolog.Logger { return &log.Logger },
	}
}

// WithLogger returns a copy writing to l.
func (g *Logger) WithLogger(l zerolog.Logger) *Logger {
	c := *g
	c.log = func() *zerolog.Logger { return &l }

	return &c
}

// ParseLevel converts a level name, unknown names are warn.
func ParseLevel(level string) glogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return glogger.Silent
	case "error":
		return glogger.Error
	case "info":
		return glogger.Info
	default:
		return glogger.Warn
	}
}

// LogMode implements logger.Interface.
func (g *Logger) LogMode(level glogger.LogLevel) glogger.Interface {
	c := *g
	c.level = level

	return &c
}

// Info implements logger.Interface.
func (g *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= glogger.Info {
		g.log().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements logger.Interface.
func (g *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= glogger.Warn {
		g.log().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements logger.Interface.
func (g *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= glogger.Error {
		g.log().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements logger.Interface.
// Record not found errors are not logged, the callers handle them.
func (g *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= glogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log().Error().Err(err).Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= glogger.Warn:
		sql, rows := fc()
		g.log().Warn().Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case g.level >= glogger.Info:
		sql, rows := fc()
		g.log().Debug().Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
