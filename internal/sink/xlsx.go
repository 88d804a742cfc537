package sink

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// XLSXSink appends rows to a local spreadsheet file, creating it with a
// header row on first use. The file is saved after every append so a
// crashed run keeps everything flushed so far.
type XLSXSink struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// NewXLSX opens or creates the spreadsheet at path.
func NewXLSX(path string) (*XLSXSink, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "sink: open xlsx %s", path)
		}
		if len(f.Sheets) == 0 {
			return nil, eris.Errorf("sink: xlsx %s has no sheets", path)
		}
		return &XLSXSink{path: path, file: f, sheet: f.Sheets[0]}, nil
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Prospects")
	if err != nil {
		return nil, eris.Wrap(err, "sink: create xlsx sheet")
	}
	header := sheet.AddRow()
	for _, col := range []string{"Name", "Industry", "Website"} {
		header.AddCell().Value = col
	}
	return &XLSXSink{path: path, file: f, sheet: sheet}, nil
}

func (s *XLSXSink) Append(ctx context.Context, rows []Row) error {
	for _, row := range rows {
		r := s.sheet.AddRow()
		r.AddCell().Value = row.Name
		r.AddCell().Value = row.Industry
		r.AddCell().Value = row.URL
	}

	if err := s.file.Save(s.path); err != nil {
		return eris.Wrapf(err, "sink: save xlsx %s", s.path)
	}

	zap.L().Info("sink: appended rows to xlsx",
		zap.Int("count", len(rows)),
		zap.String("path", s.path),
	)
	return nil
}
