package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	pgBatchSize     = 50
	pgFlushInterval = 5 * time.Second
)

// LogSink persists batches of log records.
type LogSink interface {
	WriteSystemLogs(ctx context.Context, logs []models.SystemLog) error
}

type pgBuffer struct {
	sink   LogSink
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// PGHandler is an slog.Handler that batches ERROR+ records into the
// system_logs table. Handlers derived through WithAttrs share one buffer.
type PGHandler struct {
	buf   *pgBuffer
	attrs []slog.Attr
}

func NewPGHandler(sink LogSink) *PGHandler {
	b := &pgBuffer{
		sink:   sink,
		buffer: make([]models.SystemLog, 0, pgBatchSize),
		ticker: time.NewTicker(pgFlushInterval),
		done:   make(chan struct{}),
	}
	b.wg.Add(1)
	go b.flushLoop()
	return &PGHandler{buf: b}
}

func (b *pgBuffer) flushLoop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ticker.C:
			b.flush()
		case <-b.done:
			b.flush()
			return
		}
	}
}

func (b *pgBuffer) flush() {
	b.mu.Lock()
	if len(b.buffer) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.buffer
	b.buffer = make([]models.SystemLog, 0, pgBatchSize)
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.sink.WriteSystemLogs(ctx, batch); err != nil {
		// Below ERROR so the failure does not loop back into this handler.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.buf.ticker.Stop()
	close(h.buf.done)
	h.buf.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			if id, ok := attrUint(a.Value); ok {
				entry.UserID = &id
			}
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			entry.LatencyMs = attrMillis(a.Value)
		default:
			extra[a.Key] = attrJSON(a.Value)
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.buf.mu.Lock()
	h.buf.buffer = append(h.buf.buffer, entry)
	needFlush := len(h.buf.buffer) >= pgBatchSize
	h.buf.mu.Unlock()

	if needFlush {
		go h.buf.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{buf: h.buf, attrs: merged}
}

// WithGroup is a no-op; persisted records are flat.
func (h *PGHandler) WithGroup(name string) slog.Handler {
	return h
}

// attrJSON returns a value that survives JSON encoding. Errors would
// otherwise marshal as an empty object.
func attrJSON(v slog.Value) interface{} {
	switch x := v.Any().(type) {
	case error:
		return x.Error()
	case fmt.Stringer:
		if v.Kind() == slog.KindAny {
			return x.String()
		}
	}
	return v.Any()
}

func attrUint(v slog.Value) (uint, bool) {
	switch v.Kind() {
	case slog.KindUint64:
		return uint(v.Uint64()), true
	case slog.KindInt64:
		if v.Int64() < 0 {
			return 0, false
		}
		return uint(v.Int64()), true
	case slog.KindString:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}

func attrMillis(v slog.Value) int {
	switch v.Kind() {
	case slog.KindFloat64:
		return int(math.Round(v.Float64()))
	case slog.KindInt64:
		return int(v.Int64())
	case slog.KindUint64:
		return int(v.Uint64())
	case slog.KindDuration:
		return int(v.Duration().Milliseconds())
	default:
		return 0
	}
}
