// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package record defines the server-internal log record shape and the
// single formatter both ingestion protocols render through.
package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLevelOutOfRange is returned when a record's Level falls outside the
// fixed label table below.
var ErrLevelOutOfRange = errors.New("record: level out of range")

// levelLabels is the fixed index->label table. Index must stay in sync with
// the wire contract both decoders rely on.
var levelLabels = [...]string{
	"NOTSET", "DEBUG", "STREAM", "INFO", "LOGON", "LOGOUT",
	"TRADE", "SCHEDULE", "REPORT", "WARNING", "ERROR", "CRITICAL",
}

// Record is the common internal shape produced by every decoder and
// consumed by Format. None of its fields are truncated before this
// point — truncation happens in Format.
type Record struct {
	Timestamp    string
	Hostname     string
	LoggerName   string
	Level        int32
	Filename     string
	FunctionName string
	LineNumber   string
	Message      string
}

// Column widths, left-justified, space-separated, message last and
// unpadded.
const (
	widthTimestamp = 33
	widthHostname  = 12
	widthLogger    = 15
	widthLevel     = 8
	widthFilename  = 20
	widthFunction  = 25
	widthLine      = 6
)

// truncate returns the first max bytes of s, or s itself if shorter. This is
// a byte-prefix cut, not a code-point-aware one: a multi-byte UTF-8
// character can be split. That is preserved deliberately rather than
// "fixed."
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Format renders r into a single line, without a trailing newline, with
// columns left-justified to the fixed widths above and message last, unpadded and
// untrimmed. It is pure and idempotent: the same Record always renders to
// the same bytes.
func Format(r Record) (string, error) {
	if r.Level < 0 || int(r.Level) >= len(levelLabels) {
		return "", fmt.Errorf("%w: %d", ErrLevelOutOfRange, r.Level)
	}
	level := levelLabels[r.Level]

	var b strings.Builder
	b.Grow(widthTimestamp + widthHostname + widthLogger + widthLevel +
		widthFilename + widthFunction + widthLine + len(r.Message) + 8)

	b.WriteString(pad(r.Timestamp, widthTimestamp))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(r.Hostname, widthHostname), widthHostname))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(r.LoggerName, widthLogger), widthLogger))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(level, widthLevel), widthLevel))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(r.Filename, widthFilename), widthFilename))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(r.FunctionName, widthFunction), widthFunction))
	b.WriteByte(' ')
	b.WriteString(pad(truncate(r.LineNumber, widthLine), widthLine))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	// The newline is appended at write time (internal/writer), not here:
	// rotation's byte-count accounting counts a line's length excluding
	// its trailing newline, so Format's output is exactly that length.
	return b.String(), nil
}

// LevelLabel returns the label for a valid level index, or "" and false for
// an out-of-range one. Exported for callers that want to validate a level
// before building a Record; neither decoder calls it, both rely on Format.
func LevelLabel(level int32) (string, bool) {
	if level < 0 || int(level) >= len(levelLabels) {
		return "", false
	}
	return levelLabels[level], true
}
