package source

import (
	"context"

	"github.com/sells-group/prospector-cli/internal/model"
)

// StaticSource yields a fixed slice of names. Used for single-name
// invocations and tests.
type StaticSource struct {
	names []string
	pos   int
}

// NewStatic creates a source over the given names.
func NewStatic(names ...string) *StaticSource {
	return &StaticSource{names: names}
}

func (s *StaticSource) Next(ctx context.Context) (model.CompanyRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.CompanyRecord{}, false, err
	}
	if s.pos >= len(s.names) {
		return model.CompanyRecord{}, false, nil
	}
	name := s.names[s.pos]
	s.pos++
	return model.CompanyRecord{Name: name}, true, nil
}

func (s *StaticSource) Close() error { return nil }
