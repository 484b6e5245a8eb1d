package scheduler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeStats struct {
	stats sql.DBStats
}

func (f fakeStats) Stats() sql.DBStats {
	return f.stats
}

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
}

func TestNewPoolReporterEmptySpec(t *testing.T) {
	p, err := NewPoolReporter(fakeStats{}, logrus.New(), "")
	if err != nil {
		t.Fatalf("NewPoolReporter: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil reporter for empty schedule")
	}
	// nil reporter is safe to drive
	p.Start()
	p.Stop()
}

func TestNewPoolReporterInvalidSpec(t *testing.T) {
	if _, err := NewPoolReporter(fakeStats{}, logrus.New(), "not a schedule"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestReportLogsStats(t *testing.T) {
	var buf bytes.Buffer
	db := fakeStats{stats: sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2, MaxOpenConnections: 25}}
	p, err := NewPoolReporter(db, newTestLogger(&buf), "@every 1h")
	if err != nil {
		t.Fatalf("NewPoolReporter: %v", err)
	}

	p.Report()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Database pool stats" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["open"] != float64(3) || entry["in_use"] != float64(1) || entry["idle"] != float64(2) {
		t.Errorf("unexpected stats fields: %v", entry)
	}
}

func TestStartStop(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPoolReporter(fakeStats{}, newTestLogger(&buf), "@every 1h")
	if err != nil {
		t.Fatalf("NewPoolReporter: %v", err)
	}
	p.Start()
	p.Stop()
	if !bytes.Contains(buf.Bytes(), []byte("Pool reporter stopped")) {
		t.Errorf("expected stop to be logged, got %q", buf.String())
	}
}
