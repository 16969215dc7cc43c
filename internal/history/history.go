// Package history provides SQLite-backed storage for sampled aggregate
// statistics, so the API can serve time-windowed stats queries.
package history

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
)

// DB wraps a SQLite connection for stats history storage.
type DB struct {
	conn *sqlx.DB
}

// Sample is one persisted aggregate-statistics row. RecordedAt is a unix
// timestamp in seconds; SimTime is the engine's accumulated clock.
type Sample struct {
	ID                     int64   `db:"id" json:"id"`
	RecordedAt             int64   `db:"recorded_at" json:"recorded_at"`
	SimTime                float64 `db:"sim_time" json:"sim_time"`
	ConsciousnessMagnitude float64 `db:"consciousness_magnitude" json:"consciousness_magnitude"`
	GlobalResonance        float64 `db:"global_resonance" json:"global_resonance"`
	AverageAttention       float64 `db:"average_attention" json:"average_attention"`
	AveragePhaseDegrees    float64 `db:"average_phase_degrees" json:"average_phase_degrees"`
	NodeCount              int     `db:"node_count" json:"node_count"`
	ClusterCount           int     `db:"cluster_count" json:"cluster_count"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stats_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		consciousness_magnitude REAL NOT NULL,
		global_resonance REAL NOT NULL,
		average_attention REAL NOT NULL,
		average_phase_degrees REAL NOT NULL,
		node_count INTEGER NOT NULL,
		cluster_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stats_recorded_at ON stats_history(recorded_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record appends one sampled stats row taken at the given unix second.
func (db *DB) Record(recordedAt int64, stats lattice.AggregateStats) error {
	_, err := db.conn.Exec(`INSERT INTO stats_history
		(recorded_at, sim_time, consciousness_magnitude, global_resonance,
		 average_attention, average_phase_degrees, node_count, cluster_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recordedAt, stats.Time, stats.ConsciousnessMagnitude, stats.GlobalResonance,
		stats.AverageAttention, stats.AveragePhaseDegrees, stats.NodeCount, stats.ClusterCount)
	if err != nil {
		return fmt.Errorf("record stats: %w", err)
	}
	return nil
}

// Window returns samples with from <= recorded_at <= to, oldest first,
// capped at limit rows. A non-positive limit defaults to 1000.
func (db *DB) Window(from, to int64, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = 1000
	}
	samples := []Sample{}
	err := db.conn.Select(&samples, `SELECT * FROM stats_history
		WHERE recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC, id ASC
		LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query stats window: %w", err)
	}
	return samples, nil
}

// Prune deletes samples recorded before the cutoff unix second.
func (db *DB) Prune(before int64) error {
	_, err := db.conn.Exec(`DELETE FROM stats_history WHERE recorded_at < ?`, before)
	if err != nil {
		return fmt.Errorf("prune stats: %w", err)
	}
	return nil
}
