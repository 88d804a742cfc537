package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector-cli/internal/model"
)

// CSVSource reads company names from one column of a CSV file. A header
// row is located by column name ("name" by default); maxItems caps how
// many records are yielded (0 = unlimited).
type CSVSource struct {
	f        *os.File
	reader   *csv.Reader
	col      int
	maxItems int
	yielded  int
}

// CSVOptions configures the CSV source.
type CSVOptions struct {
	Column   string // header name of the name column; default "name"
	MaxItems int    // 0 = unlimited
}

// NewCSV opens a CSV file of company names.
func NewCSV(path string, opts CSVOptions) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open csv %s", path)
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		f.Close()
		return nil, eris.Wrap(err, "source: read csv header")
	}

	colName := opts.Column
	if colName == "" {
		colName = "name"
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), colName) {
			col = i
			break
		}
	}
	if col == -1 {
		f.Close()
		return nil, eris.Errorf("source: csv %s has no %q column", path, colName)
	}

	return &CSVSource{f: f, reader: reader, col: col, maxItems: opts.MaxItems}, nil
}

func (s *CSVSource) Next(ctx context.Context) (model.CompanyRecord, bool, error) {
	if s.maxItems > 0 && s.yielded >= s.maxItems {
		return model.CompanyRecord{}, false, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return model.CompanyRecord{}, false, eris.Wrap(err, "source: cancelled")
		}

		record, err := s.reader.Read()
		if err == io.EOF {
			return model.CompanyRecord{}, false, nil
		}
		if err != nil {
			return model.CompanyRecord{}, false, eris.Wrap(err, "source: read csv row")
		}
		if s.col >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[s.col])
		if name == "" {
			continue
		}

		s.yielded++
		return model.CompanyRecord{Name: name}, true, nil
	}
}

func (s *CSVSource) Close() error {
	return s.f.Close()
}
