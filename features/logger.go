package features

import (
	"encoding/csv"
	"os"

	"github.com/nvr-ai/go-regions/regions"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Logger appends records to a feature file.
//
// The file is opened, appended and closed on every call, so no handle is held
// between frames and a failed write cannot affect earlier records.
type Logger struct {
	path   string
	logger *zap.SugaredLogger
}

// NewLogger returns a Logger for path. The file is created on first append.
func NewLogger(path string, logger *zap.SugaredLogger) *Logger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Logger{path: path, logger: logger}
}

// Path returns the feature file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes one record per region, all carrying label.
//
// A single label applies to every region of a frame; per-region labels are
// not supported.
//
// Returns:
//   - int: Number of records written.
//   - error: An error if label is empty or the file cannot be opened or written;
//     nothing is retried.
func (l *Logger) Append(label string, rs []regions.Region) (int, error) {
	if label == "" {
		return 0, errors.New("label must not be empty")
	}
	if len(rs) == 0 {
		return 0, nil
	}
	return l.write(NewRecords(label, rs))
}

func (l *Logger) write(records []Record) (int, error) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open feature file %s", l.path)
	}

	w := csv.NewWriter(f)
	for _, r := range records {
		if err := w.Write(r.Fields()); err != nil {
			f.Close()
			return 0, errors.Wrapf(err, "failed to write feature file %s", l.path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return 0, errors.Wrapf(err, "failed to flush feature file %s", l.path)
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrapf(err, "failed to close feature file %s", l.path)
	}

	l.logger.Debugw("appended features", "path", l.path, "records", len(records), "label", records[0].Label)
	return len(records), nil
}

// Read loads every record of the feature file at path.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open feature file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = FieldCount
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse feature file %s", path)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+1)
		}
		records = append(records, rec)
	}
	return records, nil
}
