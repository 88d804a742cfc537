// Package source produces the lazy sequence of company records the
// pipeline consumes.
package source

import (
	"context"

	"github.com/sells-group/prospector-cli/internal/model"
)

// Source yields company records one at a time. Next returns ok=false once
// the sequence is exhausted.
type Source interface {
	Next(ctx context.Context) (rec model.CompanyRecord, ok bool, err error)
	Close() error
}
