// Package meta writes the compile-run metadata table spec §4.12 step 2
// calls for: "write scenery-area and file-descriptor rows, magnetic
// model table." Grounded on original_source/src/fs/db/databasemeta.cpp,
// which the original uses for exactly this purpose (schema version,
// compiler identification, source cycle, row-count summaries).
// internal/orchestrator writes a Summary once; its validation phase
// checks the store's live table counts and does not read the Summary
// back.
package meta

import (
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is bumped whenever internal/store's CREATE TABLE
// statements change shape.
const SchemaVersion = 1

// Info is the single metadata row describing one compile run, mirroring
// databasemeta.cpp's key/value rows folded into one record since this
// compiler always writes exactly one run's metadata per output file.
type Info struct {
	RunID            uuid.UUID
	SchemaVersion    int
	CompilerVersion  string
	CompiledAt       time.Time
	SourceAIRACCycle string // empty if the source does not declare one
	SourceType       string
}

// New builds an Info for the current run, reading the compiler's own
// build version the way internal/logx.New reads build info for its
// startup banner.
func New(sourceType, airacCycle string) Info {
	version := "devel"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	return Info{
		RunID:            uuid.New(),
		SchemaVersion:    SchemaVersion,
		CompilerVersion:  version,
		CompiledAt:       time.Now(),
		SourceAIRACCycle: airacCycle,
		SourceType:       sourceType,
	}
}

// FileDescriptor is one row describing a single source file or scenery
// area contributing to the run, per "write scenery-area and
// file-descriptor rows."
type FileDescriptor struct {
	AreaID   uuid.UUID
	AreaName string
	Path     string
	Layer    int
	Number   int
}

// TableCount is one row of the per-table row-count summary, per
// databasemeta.cpp's row-count rows.
type TableCount struct {
	Table string
	Rows  int
}

// Summary is everything the metadata tables record: the run's own Info,
// the areas it scanned, and how many rows landed in each table.
type Summary struct {
	Info        Info
	Files       []FileDescriptor
	TableCounts []TableCount
}
