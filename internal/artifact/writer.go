// Package artifact persists matching-pipeline intermediates (planned
// batches, raw oracle responses, final results) as JSON lines. This is a
// debugging aid only; the pipeline never reads these files back.
package artifact

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type record struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Data      any       `json:"data"`
}

// Writer asynchronously appends artifact records to a size-rotated JSONL
// file. Recording never blocks the pipeline: when the buffer is full the
// record is dropped with a warning.
type Writer struct {
	writeCh chan record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *lumberjack.Logger
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, bufferSize int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}

	w := &Writer{
		writeCh: make(chan record, bufferSize),
		done:    make(chan struct{}),
		logger: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "artifacts.jsonl"),
			MaxSize:    50,
			MaxBackups: 10,
			MaxAge:     14,
		},
	}

	w.wg.Add(1)
	go w.writeLoop()
	return w, nil
}

// Record queues one artifact for async writing.
func (w *Writer) Record(kind string, v any) {
	rec := record{Timestamp: time.Now().UTC(), Kind: kind, Data: v}
	select {
	case w.writeCh <- rec:
	case <-w.done:
	default:
		slog.Warn("artifact buffer full, dropping record", "kind", kind)
	}
}

// Close stops the writer and flushes queued records.
func (w *Writer) Close() error {
	close(w.done)
	w.wg.Wait()

	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
		default:
			return w.logger.Close()
		}
	}
}

func (w *Writer) writeLoop() {
	defer w.wg.Done()
	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
		case <-w.done:
			return
		}
	}
}

func (w *Writer) writeRecord(rec record) {
	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("failed to marshal artifact record", "kind", rec.Kind, "error", err)
		return
	}
	if _, err := w.logger.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write artifact record", "kind", rec.Kind, "error", err)
	}
}
