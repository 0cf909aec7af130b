package repository

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"now-and-here/pkg/logx"
)

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM tasks", 2 }

	tests := []struct {
		name     string
		level    string
		err      error
		wantLine string
	}{
		{name: "queries traced at trace level", level: "trace", wantLine: `"level":"trace"`},
		{name: "queries silent at info level", level: "info"},
		{name: "missing record not reported", level: "info", err: gorm.ErrRecordNotFound},
		{name: "failures reported", level: "info", err: errors.New("disk I/O error"), wantLine: `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newGormLogger(logx.New(logx.Config{Level: tt.level, Format: "json", Out: &buf}))

			l.Trace(context.Background(), time.Now(), query, tt.err)

			if tt.wantLine == "" {
				assert.Zero(t, buf.Len(), buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantLine)
			assert.Contains(t, buf.String(), "SELECT * FROM tasks")
		})
	}
}
