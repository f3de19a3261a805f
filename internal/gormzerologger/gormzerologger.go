package gormzerologger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger route les logs GORM vers zerolog
type Logger struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	level                     gormlogger.LogLevel
}

// New crée un logger GORM branché sur zerolog.
// level accepte "trace", "info", "warn", "error" ou "silent".
func New(level string) *Logger {
	return &Logger{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		level:                     parseLevel(level),
	}
}

func parseLevel(level string) gormlogger.LogLevel {
	switch level {
	case "trace", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.level = level
	return &newLogger
}

func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.Info().Msgf(msg, data...)
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Msgf(msg, data...)
	}
}

func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Msgf(msg, data...)
	}
}

// Trace logue chaque requête SQL avec sa durée et le nombre de lignes
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		(!errors.Is(err, gorm.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		log.Error().
			Err(err).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("SQL error")
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.level >= gormlogger.Warn:
		log.Warn().
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Dur("threshold", l.SlowThreshold).
			Msg("SQL lente")
	case l.level >= gormlogger.Info:
		log.Debug().
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("SQL")
	}
}
