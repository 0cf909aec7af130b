package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"now-and-here/pkg/logx"
)

const slowQueryThreshold = time.Second

// gormLogger routes gorm's messages into logx. Missing records are expected
// lookups and are not reported.
type gormLogger struct {
	log   logx.Logger
	level logger.LogLevel
}

func newGormLogger(log logx.Logger) *gormLogger {
	return &gormLogger{log: log, level: logger.Warn}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error("query failed", logx.Err(err), logx.String("sql", sql), logx.Int64("rows", rows), logx.Duration("elapsed", elapsed))
	case elapsed > slowQueryThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.Warn("slow query", logx.String("sql", sql), logx.Int64("rows", rows), logx.Duration("elapsed", elapsed))
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.Debug("query", logx.String("sql", sql), logx.Int64("rows", rows), logx.Duration("elapsed", elapsed))
	case l.log.Enabled(logx.LevelTrace):
		sql, rows := fc()
		l.log.Trace("query", logx.String("sql", sql), logx.Int64("rows", rows), logx.Duration("elapsed", elapsed))
	}
}
