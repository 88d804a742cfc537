package classify

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Thesis describes what kind of company belongs on the prospect list. It
// is rendered into the classifier's system prompt.
type Thesis struct {
	Summary string   `yaml:"summary"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultThesis is used when no thesis file is configured.
func DefaultThesis() *Thesis {
	return &Thesis{
		Summary: "Owner-operated service businesses suitable for a small-company acquisition search.",
		Include: []string{
			"established local or regional service companies with a real operating website",
		},
		Exclude: []string{
			"franchises, marketplaces, directories, and pure e-commerce brands",
		},
	}
}

// LoadThesis reads a thesis YAML file.
func LoadThesis(path string) (*Thesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: read thesis %s", path)
	}
	var t Thesis
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "classify: parse thesis")
	}
	return &t, nil
}

// Render flattens the thesis into prompt text.
func (t *Thesis) Render() string {
	var b strings.Builder
	b.WriteString(t.Summary)
	if len(t.Include) > 0 {
		b.WriteString("\nInclude: ")
		b.WriteString(strings.Join(t.Include, "; "))
	}
	if len(t.Exclude) > 0 {
		b.WriteString("\nExclude: ")
		b.WriteString(strings.Join(t.Exclude, "; "))
	}
	return b.String()
}
