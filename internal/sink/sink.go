// Package sink persists included prospect rows to the configured
// destination.
package sink

import "context"

// Row is one accepted prospect: name, industry tag, validated website.
type Row struct {
	Name     string
	Industry string
	URL      string
}

// RowSink appends batches of accepted rows. The pipeline flushes at a
// configured batch size and once at end of run; implementations do not
// need their own buffering.
type RowSink interface {
	Append(ctx context.Context, rows []Row) error
}
