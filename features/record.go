// Package features persists labeled region descriptors to an append-only flat
// file and reads them back.
//
// Each line of the file is one record:
//
//	<label>,<area>,<aspectRatio>,<percentFilled>,<orientation>
package features

import (
	"strconv"

	"github.com/nvr-ai/go-regions/regions"
	"github.com/pkg/errors"
)

// FieldCount is the number of comma separated fields per record.
const FieldCount = 5

// Record is one labeled region descriptor.
type Record struct {
	Label         string
	Area          int
	AspectRatio   float64
	PercentFilled float64
	Orientation   float64
}

// NewRecords labels every region in rs with label.
func NewRecords(label string, rs []regions.Region) []Record {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		out = append(out, Record{
			Label:         label,
			Area:          r.Area,
			AspectRatio:   r.AspectRatio,
			PercentFilled: r.PercentFilled,
			Orientation:   r.Orientation,
		})
	}
	return out
}

// Fields returns the record in file order.
func (r Record) Fields() []string {
	return []string{
		r.Label,
		strconv.Itoa(r.Area),
		formatFloat(r.AspectRatio),
		formatFloat(r.PercentFilled),
		formatFloat(r.Orientation),
	}
}

// parseRecord is the inverse of Fields.
func parseRecord(fields []string) (Record, error) {
	if len(fields) != FieldCount {
		return Record{}, errors.Errorf("expected %d fields, got %d", FieldCount, len(fields))
	}
	area, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, errors.Wrap(err, "area")
	}
	var floats [3]float64
	for i, name := range []string{"aspect ratio", "percent filled", "orientation"} {
		if floats[i], err = strconv.ParseFloat(fields[i+2], 64); err != nil {
			return Record{}, errors.Wrap(err, name)
		}
	}
	return Record{
		Label:         fields[0],
		Area:          area,
		AspectRatio:   floats[0],
		PercentFilled: floats[1],
		Orientation:   floats[2],
	}, nil
}

// formatFloat writes six significant digits in the shortest form, e.g. 1, 0.5, 1.5708.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
