// ════════════════════════════════════════════════════════════════════════════════════════════════
// Fiber Job System - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Fiber Job System
// Component: Demo Driver & System Orchestration
//
// Description:
//   Phased startup: load tunables, seed and load the workload dataset, start the
//   scheduler, submit the entry job, join. The entry job exercises the scheduler
//   with recursive fork/join (Fibonacci), wide flat parallelism (chunk sums and
//   keccak digests) and compute-heavy jobs (vector transform + sort).
//
// Exit code is zero on success; non-zero only if a fatal assertion fires.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"database/sql"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"main/debug"
	"main/jobs"
	"main/utils"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
)

// Config carries the driver's tunables. Zero fields fall back to compiled
// defaults: the scheduler's for the pool and queue sizes, and
// defaultDatasetRows for the dataset.
type Config struct {
	NumThreads     int `json:"num_threads"`
	NumFibers      int `json:"num_fibers"`
	FiberStackSize int `json:"fiber_stack_size"`
	QueueSize      int `json:"queue_size"`
	DatasetRows    int `json:"dataset_rows"`
}

const (
	configPath         = "jobsystem.json"
	defaultDatasetRows = 4096
	datasetSeed        = 383628
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	// PHASE 0: Tunables and workload inputs
	debug.DropMessage("INIT", "Loading configuration")
	cfg := loadConfig(configPath)

	db := openDatabase(":memory:")
	seedDataset(db, cfg.datasetRows())
	data := loadDataset(db)
	db.Close()
	debug.DropMessage("LOADED", utils.Itoa(len(data))+" dataset rows")

	// PHASE 1: Scheduler startup
	sys := jobs.New(jobs.Args{
		NumThreads:     cfg.NumThreads,
		NumFibers:      cfg.NumFibers,
		FiberStackSize: cfg.FiberStackSize,
		QueueSize:      cfg.QueueSize,
	})

	// PHASE 2: Submit the entry job and wait for it to finish.
	// WaitForCounter needs a fiber, so the bootstrap goroutine watches a
	// completion channel instead of the counter.
	done := make(chan struct{})
	var boot jobs.Counter
	sys.RunJobs([]jobs.JobDecl{{
		Fn: func(w *jobs.Worker, _ any) {
			runDemo(w, data)
			close(done)
		},
	}}, &boot)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		debug.DropMessage("DONE", "All workloads complete")
	case <-sigChan:
		debug.DropMessage("SIGNAL", "Received interrupt, shutting down...")
	}

	// PHASE 3: Teardown
	sys.Shutdown()
	debug.DropMessage("EXIT", "idle pool at exit: "+utils.Itoa(sys.IdleFibers())+" fibers")
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION AND DATASET LOADING
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// loadConfig reads the optional JSON tunables file. A missing file runs
// the defaults; a malformed file is a configuration error and fatal.
func loadConfig(path string) Config {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		debug.DropMessage("CONFIG", "no "+path+", using defaults")
		return cfg
	}
	if err := sonnet.Unmarshal(raw, &cfg); err != nil {
		panic("failed to parse " + path + ": " + err.Error())
	}
	debug.DropMessage("CONFIG", "loaded "+path)
	return cfg
}

func (c Config) datasetRows() int {
	if c.DatasetRows <= 0 {
		return defaultDatasetRows
	}
	return c.DatasetRows
}

// openDatabase opens the dataset store. The demo uses an in-memory
// database it seeds itself, so a failure can only be environmental and is
// fatal.
func openDatabase(dsn string) *sql.DB {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		panic("failed to open database " + dsn + ": " + err.Error())
	}
	return db
}

// seedDataset fills the samples table with a deterministic pseudo-random
// series so every run sums and digests identical data.
func seedDataset(db *sql.DB, rows int) {
	if _, err := db.Exec(`CREATE TABLE samples (id INTEGER PRIMARY KEY, value REAL NOT NULL)`); err != nil {
		panic("failed to create samples table: " + err.Error())
	}

	rng := rand.New(rand.NewSource(datasetSeed))
	tx, err := db.Begin()
	if err != nil {
		panic("failed to begin seed transaction: " + err.Error())
	}
	stmt, err := tx.Prepare(`INSERT INTO samples (id, value) VALUES (?, ?)`)
	if err != nil {
		panic("failed to prepare seed insert: " + err.Error())
	}
	for i := 0; i < rows; i++ {
		if _, err := stmt.Exec(i, rng.Float64()); err != nil {
			panic("failed to seed row: " + err.Error())
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		panic("failed to commit seed transaction: " + err.Error())
	}
}

// loadDataset reads the full series back in id order with exact
// allocation, mirroring the seed count.
func loadDataset(db *sql.DB) []float64 {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&count); err != nil {
		panic("failed to count samples: " + err.Error())
	}
	if count == 0 {
		panic("no samples in dataset")
	}

	data := make([]float64, 0, count)
	rows, err := db.Query(`SELECT value FROM samples ORDER BY id`)
	if err != nil {
		panic("failed to query samples: " + err.Error())
	}
	defer rows.Close()

	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			panic("failed to scan sample: " + err.Error())
		}
		data = append(data, v)
	}
	if err := rows.Err(); err != nil {
		panic("dataset iteration error: " + err.Error())
	}
	return data
}
