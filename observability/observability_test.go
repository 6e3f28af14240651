package observability

import (
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	m := NewMetrics(db, 100, time.Hour)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndQuery(t *testing.T) {
	m := openTestMetrics(t)

	m.RecordDuration("coverage_stop", 120*time.Millisecond, map[string]string{"page": "https://a.test/"})
	m.RecordCount("chains_detected", 3)

	m.mu.Lock()
	m.flushLocked()
	m.mu.Unlock()

	got, err := m.Query("coverage_stop", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("metrics: got %d, want 1", len(got))
	}
	if got[0].Value != 120 {
		t.Errorf("Value: got %v, want 120", got[0].Value)
	}
	if got[0].Unit != "milliseconds" {
		t.Errorf("Unit: got %q", got[0].Unit)
	}
	if got[0].Labels["page"] != "https://a.test/" {
		t.Errorf("Labels: got %+v", got[0].Labels)
	}

	all, err := m.Query("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all metrics: got %d, want 2", len(all))
	}
}

func TestCloseFlushes(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	m := NewMetrics(db, 100, time.Hour)
	m.RecordCount("ops", 1)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM metrics_timeseries").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows after Close: got %d, want 1", n)
	}
}
