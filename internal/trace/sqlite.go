package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/oscript-lang/oscript/internal/object"
)

// SQLiteSink mirrors every trace event into a SQLite database alongside
// the in-memory Log, keyed by a per-run UUID. This is a sideband export
// for cross-run querying; it is distinct from (and does not replace) the
// bare JSON array spec.md §6 requires as the canonical trace format, and
// it does not give O-script instances persistent history across runs —
// each run's rows are tagged with their own run_id and the language
// itself never reads them back (spec.md §1 Non-goals).
type SQLiteSink struct {
	db    *sql.DB
	runID string
}

// OpenSQLiteSink opens (creating if absent) a SQLite database at path and
// prepares the trace_events table.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite trace sink: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS trace_events (
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	type TEXT NOT NULL,
	object TEXT NOT NULL,
	line INTEGER,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trace_events_object ON trace_events(run_id, object, step);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create trace_events schema: %w", err)
	}
	runID := uuid.NewString()
	klog.V(2).InfoS("opened sqlite trace sink", "path", path, "runID", runID)
	return &SQLiteSink{db: db, runID: runID}, nil
}

// Write implements Sink.
func (s *SQLiteSink) Write(e object.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	var line interface{}
	if e.Line != nil {
		line = *e.Line
	}
	_, err = s.db.Exec(
		`INSERT INTO trace_events (run_id, step, type, object, line, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, e.Step, e.Type, e.Object, line, string(payload),
	)
	return err
}

// RunID is the UUID tagging every row this sink has written.
func (s *SQLiteSink) RunID() string { return s.runID }

// Close closes the underlying database handle.
func (s *SQLiteSink) Close() error { return s.db.Close() }
