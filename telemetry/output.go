package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/slugs/config"
)

// csvSink appends records of one type to a CSV file, writing the header once.
type csvSink struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{name: name, file: f}, nil
}

func (s *csvSink) write(records any) error {
	var err error
	if !s.headerWritten {
		err = gocsv.Marshal(records, s.file)
		s.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, s.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

// OrderRecord is one order issued to the selection.
type OrderRecord struct {
	Tick       int32   `csv:"tick"`
	Token      string  `csv:"token"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Recipients int     `csv:"recipients"`
	Ignored    int     `csv:"ignored"`
}

// OutputManager writes run output: the effective config, windowed telemetry,
// perf samples and the order log.
type OutputManager struct {
	dir       string
	telemetry *csvSink
	perf      *csvSink
	orders    *csvSink
}

// NewOutputManager creates dir and opens its CSV files.
// Returns nil if dir is empty (output disabled); all methods accept a nil
// receiver.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openSink(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openSink(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.orders, err = openSink(dir, "orders.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends a perf sample to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteOrder appends an issued order to orders.csv.
func (om *OutputManager) WriteOrder(rec OrderRecord) error {
	if om == nil {
		return nil
	}
	return om.orders.write([]OrderRecord{rec})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, returning the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, s := range []*csvSink{om.telemetry, om.perf, om.orders} {
		if s == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
