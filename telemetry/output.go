package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/bounce/config"
)

// Output file names inside the output directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	BookmarkFile  = "bookmarks.csv"
	ConfigFile    = "config.yaml"
)

// csvSink appends gocsv rows of one type to a file, writing the header with
// the first row only.
type csvSink[T any] struct {
	name    string
	file    *os.File
	started bool
}

func openSink[T any](dir, name string) (*csvSink[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink[T]{name: name, file: f}, nil
}

func (s *csvSink[T]) write(row T) error {
	rows := []T{row}
	marshal := gocsv.MarshalWithoutHeaders
	if !s.started {
		marshal = gocsv.Marshal
	}
	if err := marshal(rows, s.file); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.started = true
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// OutputManager writes window stats, perf samples and bookmarks as CSV, plus a
// snapshot of the configuration. A nil *OutputManager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink[WindowStats]
	perf      *csvSink[PerfStatsCSV]
	bookmarks *csvSink[Bookmark]
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openSink[WindowStats](dir, TelemetryFile); err != nil {
		return nil, err
	}
	if om.perf, err = openSink[PerfStatsCSV](dir, PerfFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openSink[Bookmark](dir, BookmarkFile); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write(stats)
}

// WritePerf appends the perf window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(windowEnd))
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write(b)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files. Closing twice is a no-op.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close(), om.bookmarks.close())
}
