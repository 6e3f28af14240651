// CLAUDE:SUMMARY SQLite-native operation metrics: buffered async recorder for analysis durations and counts.
// Package observability records operation metrics to a dedicated SQLite
// database, kept separate from any application data to avoid write
// contention. Persistence is async and non-blocking: a full buffer flushes
// inline, and datapoints are batched on an interval otherwise.
//
// Only operational telemetry lands here (analysis durations, record counts).
// Analysis results themselves are never persisted.
package observability

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Schema is the DDL for the metrics table.
const Schema = `
CREATE TABLE IF NOT EXISTS metrics_timeseries (
    metric_id TEXT PRIMARY KEY DEFAULT ('met_' || hex(randomblob(16))),
    metric_name TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    value REAL NOT NULL,
    labels TEXT,
    unit TEXT,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_metrics_name_time
    ON metrics_timeseries(metric_name, timestamp DESC);
`

// Open opens the observability database with WAL and busy-timeout pragmas
// and applies the schema. Parent directories are created as needed. The
// caller must blank-import an SQLite driver registered as "sqlite":
//
//	import _ "modernc.org/sqlite"
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("observability: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("observability: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("observability: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("observability: schema: %w", err)
	}
	return db, nil
}

// Metric is one timeseries datapoint.
type Metric struct {
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Unit      string            `json:"unit"` // "milliseconds", "count", "bytes"
}

// Metrics buffers datapoints and flushes them to SQLite in batches.
type Metrics struct {
	db            *sql.DB
	bufferSize    int
	flushInterval time.Duration
	mu            sync.Mutex
	buffer        []*Metric
	stop          chan struct{}
	done          chan struct{}
}

// NewMetrics starts the flush loop. Reasonable defaults: bufferSize 100,
// flushInterval 5s; zero values fall back to those.
func NewMetrics(db *sql.DB, bufferSize int, flushInterval time.Duration) *Metrics {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	m := &Metrics{
		db:            db,
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		buffer:        make([]*Metric, 0, bufferSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go m.flushLoop()
	return m
}

// Record queues a metric. Non-blocking except when the buffer is full, in
// which case it flushes inline.
func (m *Metrics) Record(metric *Metric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffer = append(m.buffer, metric)
	if len(m.buffer) >= m.bufferSize {
		m.flushLocked()
	}
}

// RecordDuration records an operation duration in milliseconds with optional
// labels.
func (m *Metrics) RecordDuration(name string, d time.Duration, labels map[string]string) {
	m.Record(&Metric{
		Name:      name,
		Timestamp: time.Now(),
		Value:     float64(d.Milliseconds()),
		Labels:    labels,
		Unit:      "milliseconds",
	})
}

// RecordCount records a simple counter observation.
func (m *Metrics) RecordCount(name string, n int) {
	m.Record(&Metric{Name: name, Timestamp: time.Now(), Value: float64(n), Unit: "count"})
}

// Query retrieves recent metrics, newest first. Empty name means all
// metrics; limit <= 0 means no limit.
func (m *Metrics) Query(name string, limit int) ([]*Metric, error) {
	q := "SELECT metric_name, timestamp, value, labels, unit FROM metrics_timeseries"
	args := make([]any, 0, 2)
	if name != "" {
		q += " WHERE metric_name = ?"
		args = append(args, name)
	}
	q += " ORDER BY timestamp DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("observability: query: %w", err)
	}
	defer rows.Close()

	var out []*Metric
	for rows.Next() {
		var (
			mn, unit   string
			ts         int64
			value      float64
			labelsJSON sql.NullString
		)
		if err := rows.Scan(&mn, &ts, &value, &labelsJSON, &unit); err != nil {
			return nil, fmt.Errorf("observability: scan: %w", err)
		}
		metric := &Metric{Name: mn, Timestamp: time.Unix(ts, 0), Value: value, Unit: unit}
		if labelsJSON.Valid {
			var labels map[string]string
			if json.Unmarshal([]byte(labelsJSON.String), &labels) == nil {
				metric.Labels = labels
			}
		}
		out = append(out, metric)
	}
	return out, rows.Err()
}

// Close flushes remaining datapoints and stops the flush loop. The database
// handle stays open; the caller owns it.
func (m *Metrics) Close() error {
	close(m.stop)
	<-m.done
	return nil
}

func (m *Metrics) flushLoop() {
	defer close(m.done)
	ticker := time.NewTicker(m.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			m.mu.Lock()
			m.flushLocked()
			m.mu.Unlock()
			return
		case <-ticker.C:
			m.mu.Lock()
			m.flushLocked()
			m.mu.Unlock()
		}
	}
}

// flushLocked writes the buffer in one transaction. Failures drop the batch
// rather than applying backpressure to the caller.
func (m *Metrics) flushLocked() {
	if len(m.buffer) == 0 {
		return
	}
	batch := m.buffer
	m.buffer = make([]*Metric, 0, m.bufferSize)

	tx, err := m.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(
		"INSERT INTO metrics_timeseries (metric_name, timestamp, value, labels, unit) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, metric := range batch {
		var labelsJSON any
		if len(metric.Labels) > 0 {
			if data, err := json.Marshal(metric.Labels); err == nil {
				labelsJSON = string(data)
			}
		}
		stmt.Exec(metric.Name, metric.Timestamp.Unix(), metric.Value, labelsJSON, metric.Unit)
	}
	tx.Commit()
}
