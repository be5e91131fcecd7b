package di

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/depkit/logger"
	"github.com/kbukum/depkit/observability"
)

const componentName = "di"

const (
	sourceStored   = observability.SourceStored
	sourceDefault  = observability.SourceDefault
	sourceMismatch = observability.SourceMismatch
)

func recordResolution(source string, id reflect.Type) {
	s := loadSettings()
	if s.metrics == nil {
		return
	}
	s.metrics.RecordResolution(context.Background(), source, id.String())
}

func reportMismatch(id, want, got reflect.Type) {
	s := loadSettings()
	s.metrics.RecordResolution(context.Background(), sourceMismatch, id.String())
	if s.cfg.SilentMismatches {
		return
	}
	logger.Get(componentName).Warn("dependency type mismatch, using default", logger.Fields(
		logger.FieldKey, id.String(),
		logger.FieldExpected, want.String(),
		logger.FieldStored, got.String(),
	))
}

// scopeTrace tracks one scoped override for logging and metrics.
type scopeTrace struct {
	id      string
	s       *settings
	start   time.Time
	depth   int32
	entries int
}

func beginScope(depth int32, entries int) scopeTrace {
	st := scopeTrace{
		id:      uuid.NewString(),
		s:       loadSettings(),
		start:   time.Now(),
		depth:   depth,
		entries: entries,
	}
	st.s.metrics.RecordScopeStart(context.Background())
	logger.Get(componentName).Debug("dependency scope entered", logger.Fields(
		logger.FieldScopeID, st.id,
		logger.FieldDepth, depth,
		logger.FieldEntries, entries,
	))
	return st
}

func (st scopeTrace) end(status string) {
	st.s.metrics.RecordScopeEnd(context.Background(), status, time.Since(st.start))
	logger.Get(componentName).Debug("dependency scope restored", logger.Fields(
		logger.FieldScopeID, st.id,
		logger.FieldDepth, st.depth,
		"status", status,
	))
}
