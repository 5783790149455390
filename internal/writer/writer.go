// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package writer implements the single-consumer reorder/batch/rotate
// stage. Every accepted record, from either transport, passes through
// exactly one Writer, which is what gives the server producer-injection
// order across the whole process rather than just per-connection order.
//
// The pending buffer is keyed by sequence number with a doubling/halving
// adaptive batch size in [10,1000], fed by a bounded channel. Go has no
// ordered-map primitive, but pending is only ever scanned forward from
// nextExpected, so a plain map plus a sort pass at shutdown (the one
// place a full key order regardless of gaps is required) is sufficient.
package writer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toto1234567890/log-server/internal/rotation"
)

// ErrWriteExhausted is returned by Run when a batch could not be written
// after the configured number of retries: this is fatal to the writer,
// and thus to the server.
var ErrWriteExhausted = errors.New("writer: write failed after maximum retries")

// ErrClosed is returned by Enqueue once the writer has stopped consuming,
// whether from a clean shutdown (CloseInput) or a fatal write error.
// Closing the shared channel here instead, with producers still trying
// to send, would panic, so Run signals termination through doneCh and
// Enqueue selects on it instead of ever closing the data channel from
// the consumer side.
var ErrClosed = errors.New("writer: closed")

// Config collects every tunable governing batching, retry and rotation.
type Config struct {
	BasePath         string        // e.g. "logs/_main.log"
	BufferSize       int           // channel capacity; default 1024
	InitialBatchSize int           // default 100
	MinBatchSize     int           // default 10
	MaxBatchSize     int           // default 1000
	MaxRetries       int           // default 3 (4 attempts total)
	RetryDelay       time.Duration // default 100ms
	MaxFileBytes     int64         // default 1 MiB
	BackupCount      int           // default 10
}

// DefaultConfig returns the server's standard tuning values.
func DefaultConfig(basePath string) Config {
	return Config{
		BasePath:         basePath,
		BufferSize:       1024,
		InitialBatchSize: 100,
		MinBatchSize:     10,
		MaxBatchSize:     1000,
		MaxRetries:       3,
		RetryDelay:       100 * time.Millisecond,
		MaxFileBytes:     rotation.MaxFileBytes,
		BackupCount:      rotation.BackupCount,
	}
}

// RotateFunc renames the active file into the backup ring. It is a field
// (rather than a direct call to internal/rotation.Rotate) so tests can
// observe or stub rotation independently of the filesystem.
type RotateFunc func(basePath string, backupCount int) error

// Writer is the single consumer of sequence-tagged log lines. Construct
// one with New, share its Enqueue method with every transport listener,
// and call Run exactly once.
type Writer struct {
	cfg    Config
	rotate RotateFunc
	log    *zap.SugaredLogger

	ch     chan string
	doneCh chan struct{}
	once   sync.Once

	file      *os.File
	bw        *bufio.Writer
	fileBytes int64

	nextExpected uint64
	pending      map[uint64]string
	batchSize    int
}

// New creates the active log file, truncating any existing file at
// basePath, and returns a Writer ready to have Run called on it.
func New(cfg Config, log *zap.SugaredLogger) (*Writer, error) {
	f, err := os.Create(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("writer: create %s: %w", cfg.BasePath, err)
	}
	return &Writer{
		cfg:       cfg,
		rotate:    rotation.Rotate,
		log:       log,
		ch:        make(chan string, cfg.BufferSize),
		doneCh:    make(chan struct{}),
		file:      f,
		bw:        bufio.NewWriter(f),
		pending:   make(map[uint64]string),
		batchSize: cfg.InitialBatchSize,
	}, nil
}

// Enqueue submits a sequence-tagged, already-rendered line. It blocks when
// the channel is full — the only backpressure mechanism against a slow
// writer — and returns ErrClosed if the writer has already stopped
// consuming.
func (w *Writer) Enqueue(seq uint64, line string) error {
	item := strconv.FormatUint(seq, 10) + " " + line
	select {
	case <-w.doneCh:
		return ErrClosed
	default:
	}
	select {
	case w.ch <- item:
		return nil
	case <-w.doneCh:
		return ErrClosed
	}
}

// CloseInput signals that no further sends will occur: callers must
// guarantee every ingress goroutine has stopped calling Enqueue first.
// It is safe to call more than once.
func (w *Writer) CloseInput() {
	w.once.Do(func() { close(w.ch) })
}

// Run drains the channel until it is closed, reordering, batching,
// writing and rotating as it goes, then performs the shutdown drain
// before returning. It returns nil on a clean shutdown, or an error
// wrapping ErrWriteExhausted if a batch could not be durably written.
// Run must be called exactly once, by a single goroutine.
func (w *Writer) Run() error {
	defer close(w.doneCh)
	defer func() { w.file.Close() }()

	for item := range w.ch {
		w.accept(item)

		for len(w.pending) >= w.batchSize || w.hasNext() {
			batch, keys := w.buildBatch()
			if len(batch) == 0 {
				break
			}
			for _, k := range keys {
				delete(w.pending, k)
			}
			w.nextExpected += uint64(len(batch))

			if err := w.writeBatch(batch); err != nil {
				return fmt.Errorf("%w: %v", ErrWriteExhausted, err)
			}
			if w.fileBytes >= w.cfg.MaxFileBytes {
				if err := w.rotateFile(); err != nil {
					return fmt.Errorf("%w: %v", ErrWriteExhausted, err)
				}
			}
		}

		w.adaptBatchSize()
	}

	return w.drain()
}

func (w *Writer) hasNext() bool {
	_, ok := w.pending[w.nextExpected]
	return ok
}

// accept splits the leading "<seq> " tag off item and inserts the
// remainder into pending. A malformed tag is silently dropped: this is
// unreachable from compliant producers, not an error worth surfacing.
func (w *Writer) accept(item string) {
	seqStr, line, ok := strings.Cut(item, " ")
	if !ok {
		return
	}
	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		return
	}
	w.pending[seq] = line
}

// buildBatch extracts, in order starting at nextExpected, up to
// batchSize entries, stopping at the first gap.
func (w *Writer) buildBatch() (lines []string, keys []uint64) {
	seq := w.nextExpected
	for len(lines) < w.batchSize {
		line, ok := w.pending[seq]
		if !ok {
			break
		}
		lines = append(lines, line)
		keys = append(keys, seq)
		seq++
	}
	return lines, keys
}

func (w *Writer) adaptBatchSize() {
	n := len(w.pending)
	switch {
	case n > w.batchSize:
		w.batchSize *= 2
		if w.batchSize > w.cfg.MaxBatchSize {
			w.batchSize = w.cfg.MaxBatchSize
		}
	case n < w.batchSize/2:
		w.batchSize /= 2
		if w.batchSize < w.cfg.MinBatchSize {
			w.batchSize = w.cfg.MinBatchSize
		}
	}
}

// writeBatch writes every line in batch, each followed by "\n", retrying
// the whole batch from scratch up to cfg.MaxRetries additional times on
// any write error (cfg.MaxRetries+1 attempts total), sleeping
// cfg.RetryDelay between attempts. It re-attempts the full batch rather
// than just the unwritten remainder, since bw.Reset discards whatever was
// buffered but not yet flushed.
func (w *Writer) writeBatch(batch []string) error {
	var lastErr error
	for attempt := 0; attempt <= w.cfg.MaxRetries; attempt++ {
		w.bw.Reset(w.file)
		lastErr = nil

		for _, line := range batch {
			if _, err := w.bw.WriteString(line); err != nil {
				lastErr = err
				break
			}
			if err := w.bw.WriteByte('\n'); err != nil {
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			if err := w.bw.Flush(); err != nil {
				lastErr = err
			}
		}

		if lastErr == nil {
			for _, line := range batch {
				w.fileBytes += int64(len(line))
			}
			return nil
		}

		if w.log != nil {
			w.log.Warnw("batch write failed, retrying", "attempt", attempt, "err", lastErr)
		}
		if attempt < w.cfg.MaxRetries {
			time.Sleep(w.cfg.RetryDelay)
		}
	}
	return lastErr
}

func (w *Writer) rotateFile() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	if err := w.rotate(w.cfg.BasePath, w.cfg.BackupCount); err != nil {
		return err
	}
	f, err := os.Create(w.cfg.BasePath)
	if err != nil {
		return err
	}
	w.file = f
	w.bw = bufio.NewWriter(f)
	w.fileBytes = 0
	return nil
}

// drain is the shutdown path: emit every remaining pending entry in key
// order regardless of gaps, a best-effort flush, then flush and close.
func (w *Writer) drain() error {
	if len(w.pending) == 0 {
		return nil
	}
	keys := make([]uint64, 0, len(w.pending))
	for k := range w.pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	w.bw.Reset(w.file)
	for _, k := range keys {
		line := w.pending[k]
		if _, err := w.bw.WriteString(line); err != nil {
			return err
		}
		if err := w.bw.WriteByte('\n'); err != nil {
			return err
		}
		w.fileBytes += int64(len(line))
	}
	return w.bw.Flush()
}
