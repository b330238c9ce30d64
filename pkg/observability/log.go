package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to l under the "hooks" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) done(msg string, err error, keyvals ...any) {
	if err != nil {
		keyvals = append(keyvals, "err", err)
	}
	h.logger.Debug(msg, keyvals...)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, width, height, rooms int) {
	h.logger.Debug("generate start", "width", width, "height", height, "rooms", rooms)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, method string, cells int, d time.Duration, err error) {
	h.done("generate done", err, "method", method, "cells", cells, "took", d)
}

func (h *LogHooks) OnGraphStart(_ context.Context, rooms int) {
	h.logger.Debug("graph start", "rooms", rooms)
}

func (h *LogHooks) OnGraphComplete(_ context.Context, trees int, d time.Duration, err error) {
	h.done("graph done", err, "trees", trees, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render done", err, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, stage string) {
	h.logger.Debug("cache hit", "stage", stage)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, stage string) {
	h.logger.Debug("cache miss", "stage", stage)
}

func (h *LogHooks) OnCacheSet(_ context.Context, stage string, size int) {
	h.logger.Debug("cache set", "stage", stage, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path, code string, err error) {
	h.done("request failed", err, "method", method, "path", path, "code", code)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
