package gorm

import (
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// NewLogger routes GORM's SQL logging through zap. The application log
// level is shifted one step quieter so "info" does not echo every query.
func NewLogger(log *zap.Logger, level string) gormlogger.Interface {
	logLevel := gormlogger.Silent
	switch level {
	case "debug":
		logLevel = gormlogger.Info
	case "info":
		logLevel = gormlogger.Warn
	case "warn", "error":
		logLevel = gormlogger.Error
	}

	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
