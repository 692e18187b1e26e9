// Package runlog implements structured, newline-delimited JSON run
// logging for the interpreter: one entry per uncaught runtime error and
// one per job launch/exit.
//
// Grounded on the teacher's core/logger/utils.go (Logger/SessionLogger/
// NewJsonLinesLogRecorder shape) and core/logger/report.go (StrCounter/
// PathCounter), rebuilt over a plain JSON-tagged Entry struct since the
// teacher's LogEntry is generated from a log.proto that isn't part of
// this module (see DESIGN.md).
package runlog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Entry is one structured log line.
type Entry struct {
	TimestampMicros int64  `json:"timestampMicros"`
	SessionID       string `json:"sessionId,omitempty"`

	// Exactly one of the following is populated, mirroring the
	// teacher's oneof LogType.
	RuntimeError *RuntimeErrorEvent `json:"runtimeError,omitempty"`
	JobLaunch    *JobLaunchEvent    `json:"jobLaunch,omitempty"`
	JobExit      *JobExitEvent      `json:"jobExit,omitempty"`
}

type RuntimeErrorEvent struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

type JobLaunchEvent struct {
	Argv       []string `json:"argv"`
	Foreground bool     `json:"foreground"`
}

type JobExitEvent struct {
	Argv     []string `json:"argv"`
	ExitCode int      `json:"exitCode"`
}

// Recorder stores an Entry in an external sink.
type Recorder func(e *Entry) error

// Logger captures interaction event logs for the interpreter.
type Logger struct {
	Record Recorder
}

// NewJsonLinesLogRecorder builds a Logger that writes one JSON object
// per line to w.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(e *Entry) error {
			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		},
	}
}

func (l *Logger) record(sessionID string, fill func(*Entry)) error {
	e := &Entry{
		TimestampMicros: time.Now().UnixNano() / int64(time.Microsecond/time.Nanosecond),
		SessionID:       sessionID,
	}
	fill(e)
	return l.Record(e)
}

// NewSession creates a logger with a shared session ID.
func (l *Logger) NewSession(sessionID string) *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: sessionID}
}

// SessionLogger tags every recorded entry with the same session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (s *SessionLogger) RuntimeError(ev *RuntimeErrorEvent) error {
	return s.record(s.sessionID, func(e *Entry) { e.RuntimeError = ev })
}

func (s *SessionLogger) JobLaunch(ev *JobLaunchEvent) error {
	return s.record(s.sessionID, func(e *Entry) { e.JobLaunch = ev })
}

func (s *SessionLogger) JobExit(ev *JobExitEvent) error {
	return s.record(s.sessionID, func(e *Entry) { e.JobExit = ev })
}

// StrCounter counts the number of times each string is seen. Used by
// report tooling built on top of a run log.
type StrCounter struct {
	internal map[string]int
}

func (s *StrCounter) Increment(key string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}
	s.internal[key]++
}

func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

// Report summarizes a stream of Entry values, grounded on the teacher's
// Report/RunCommandReport shape.
type Report struct {
	LogEntries        int        `json:"logEntries"`
	RuntimeErrorKinds StrCounter `json:"runtimeErrorKinds"`
	Commands          StrCounter `json:"commands"`
}

// Update folds one Entry into the report.
func (r *Report) Update(e *Entry) {
	r.LogEntries++
	switch {
	case e.RuntimeError != nil:
		r.RuntimeErrorKinds.Increment(e.RuntimeError.Kind)
	case e.JobLaunch != nil && len(e.JobLaunch.Argv) > 0:
		r.Commands.Increment(e.JobLaunch.Argv[0])
	}
}

// ReadJSONLinesLog parses a newline-delimited JSON log, calling handler
// for each entry in order.
func ReadJSONLinesLog(r io.Reader, handler func(e *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var e Entry
		if err := decoder.Decode(&e); err != nil {
			return err
		}
		handler(&e)
	}
	return nil
}
