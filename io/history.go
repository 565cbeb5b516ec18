package io

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/phil-mansfield/wingworks/geom"
)

// History records the force on the foil over the course of a run in a
// SQLite database.
type History struct {
	conn  *sql.DB
	runID int64
}

// ForceRow is a single step's entry in a History.
type ForceRow struct {
	Step     int
	Force    geom.Vec
	Momentum float64
}

// OpenHistory opens (or creates) the database at path and starts a new run
// in it described by con.
func OpenHistory(path string, con *RunConfig) (*History, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	h := &History{conn: conn}
	if err := h.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("Could not set up history tables in %s: %w", path, err)
	}
	if err := h.startRun(con); err != nil {
		conn.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) migrate() error {
	_, err := h.conn.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			world_width        REAL NOT NULL,
			world_height       REAL NOT NULL,
			foil_width         REAL NOT NULL,
			alpha_deg          REAL NOT NULL,
			max_particle_speed REAL NOT NULL,
			wind_speed         REAL NOT NULL,
			speed_scale        REAL NOT NULL,
			created_at         DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS forces (
			run_id   INTEGER NOT NULL REFERENCES runs(id),
			step     INTEGER NOT NULL,
			fx       REAL NOT NULL,
			fy       REAL NOT NULL,
			momentum REAL NOT NULL,
			PRIMARY KEY (run_id, step)
		);
	`)
	return err
}

func (h *History) startRun(con *RunConfig) error {
	res, err := h.conn.Exec(
		`INSERT INTO runs (world_width, world_height, foil_width, alpha_deg,
			max_particle_speed, wind_speed, speed_scale)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		con.WorldWidth, con.WorldHeight, con.FoilWidth, con.AlphaDeg,
		con.MaxParticleSpeed, con.WindSpeed, con.SpeedScale(),
	)
	if err != nil {
		return err
	}
	h.runID, err = res.LastInsertId()
	return err
}

// RunID returns the id of the run being recorded.
func (h *History) RunID() int64 { return h.runID }

// Record stores the smoothed force and net momentum after a step.
func (h *History) Record(step int, force geom.Vec, momentum float64) error {
	_, err := h.conn.Exec(
		`INSERT INTO forces (run_id, step, fx, fy, momentum)
		VALUES (?, ?, ?, ?, ?)`,
		h.runID, step, force.X, force.Y, momentum,
	)
	return err
}

// Forces returns every row recorded for the current run, in step order.
func (h *History) Forces() ([]ForceRow, error) {
	rows, err := h.conn.Query(
		`SELECT step, fx, fy, momentum FROM forces
		WHERE run_id = ? ORDER BY step`, h.runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ForceRow{}
	for rows.Next() {
		r := ForceRow{}
		if err := rows.Scan(&r.Step, &r.Force.X, &r.Force.Y, &r.Momentum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (h *History) Close() error {
	return h.conn.Close()
}
