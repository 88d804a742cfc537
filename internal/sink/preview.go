package sink

import (
	"context"
	"fmt"
	"io"
)

// PreviewSink prints accepted rows instead of persisting them. Used when
// no sink is configured so a dry run still shows its results.
type PreviewSink struct {
	out io.Writer
}

// NewPreview creates a PreviewSink writing to out.
func NewPreview(out io.Writer) *PreviewSink {
	return &PreviewSink{out: out}
}

func (s *PreviewSink) Append(_ context.Context, rows []Row) error {
	for _, row := range rows {
		fmt.Fprintf(s.out, "%-40s  %-24s  %s\n", row.Name, row.Industry, row.URL)
	}
	return nil
}
