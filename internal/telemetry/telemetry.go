// Package telemetry formats and writes per-phase timing and result
// output, in either a human-readable or a line-oriented JSON form.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ssb/internal/query"
)

// Format is an enum type representing the available telemetry/result
// output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Span is one phase's timing: a query name, phase name, and duration.
// The engine emits one Span per phase it completes.
type Span struct {
	Query  string
	Phase  string
	Millis int64
}

// Emitter writes phase spans and result rows. The human emitter writes
// spans to the telemetry writer (stderr by convention) and rows to the
// result writer (stdout by convention); the JSON emitter writes both to
// the telemetry writer, interleaved as one object stream.
type Emitter interface {
	EmitSpan(s Span) error
	EmitResult(query string, rows []query.Row) error
}

// NewEmitter creates a new Emitter based on the given format name.
// If no format is specified, defaults to human format.
func NewEmitter(name string, telemetryW, resultW io.Writer) (Emitter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return &humanEmitter{telemetryW: telemetryW, resultW: resultW}, nil
	case FormatJSON:
		return &jsonEmitter{w: telemetryW}, nil
	default:
		return nil, fmt.Errorf("unsupported telemetry format: %s; use 'human' or 'json'", name)
	}
}

// humanEmitter writes "query,phase,millis" lines to telemetryW (stderr
// by convention) and prints first/.../last result rows to resultW
// (stdout by convention).
type humanEmitter struct {
	telemetryW io.Writer
	resultW    io.Writer
}

func (e *humanEmitter) EmitSpan(s Span) error {
	_, err := fmt.Fprintf(e.telemetryW, "%s,%s,%d\n", s.Query, s.Phase, s.Millis)
	return err
}

func (e *humanEmitter) EmitResult(name string, rows []query.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(e.resultW, "%s: %s\n", name, rows[0].String()); err != nil {
		return err
	}
	if len(rows) >= 3 {
		if _, err := fmt.Fprintln(e.resultW, "..."); err != nil {
			return err
		}
	}
	if len(rows) >= 2 {
		if _, err := fmt.Fprintf(e.resultW, "%s: %s\n", name, rows[len(rows)-1].String()); err != nil {
			return err
		}
	}
	return nil
}

// jsonEmitter writes one JSON object per line to w, for both spans and
// results, so a consumer can interleave and replay the whole run.
type jsonEmitter struct {
	w io.Writer
}

type spanRecord struct {
	Type   string `json:"type"`
	Query  string `json:"query"`
	Phase  string `json:"phase"`
	Millis int64  `json:"millis"`
}

type resultRecord struct {
	Type  string      `json:"type"`
	Query string      `json:"query"`
	Rows  []query.Row `json:"rows"`
}

func (e *jsonEmitter) EmitSpan(s Span) error {
	return json.NewEncoder(e.w).Encode(spanRecord{Type: "span", Query: s.Query, Phase: s.Phase, Millis: s.Millis})
}

func (e *jsonEmitter) EmitResult(name string, rows []query.Row) error {
	return json.NewEncoder(e.w).Encode(resultRecord{Type: "result", Query: name, Rows: rows})
}
