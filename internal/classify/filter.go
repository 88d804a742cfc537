// Package classify makes the include/industry decision for a resolved
// company via the Anthropic Messages API.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/resilience"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
)

// Decision is the classifier's verdict for one company.
type Decision struct {
	Include  bool   `json:"include"`
	Industry string `json:"industry_short"`
}

// Mode controls the fallback when the classifier fails or returns
// malformed data.
type Mode string

const (
	// ModeStrict excludes the company on classifier failure.
	ModeStrict Mode = "strict"
	// ModeBalanced passes the company through with an unknown industry.
	ModeBalanced Mode = "balanced"
)

const systemPromptTemplate = `You screen companies for an acquisition prospect list.

Investment thesis:
%s

Given a company name and its website, decide whether it fits the thesis and
give a short industry label (2-4 words). Respond with exactly one JSON
object, no prose, no code fences:
{"include": true or false, "industry_short": "..."}`

// Filter decides include/exclude and an industry tag for resolved
// companies. Failures never abort the run; they degrade to the mode's
// default decision.
type Filter struct {
	client anthropic.Client
	model  string
	mode   Mode
	system string
}

// NewFilter creates a Filter. A nil thesis falls back to DefaultThesis.
func NewFilter(client anthropic.Client, model string, mode Mode, thesis *Thesis) *Filter {
	if thesis == nil {
		thesis = DefaultThesis()
	}
	return &Filter{
		client: client,
		model:  model,
		mode:   mode,
		system: fmt.Sprintf(systemPromptTemplate, thesis.Render()),
	}
}

// Decide classifies one company. On failure the returned error is non-nil
// and the Decision carries the mode's conservative default: exclude under
// strict, pass-through with "Unknown" otherwise.
func (f *Filter) Decide(ctx context.Context, name, url string) (Decision, error) {
	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       f.model,
		MaxTokens:   128,
		System:      f.system,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("Company: %s\nWebsite: %s", name, url)},
		},
	}

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("anthropic", "classify")

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return f.client.CreateMessage(ctx, req)
	})
	if err != nil {
		zap.L().Warn("classify: request failed",
			zap.String("name", name),
			zap.Error(err),
		)
		return f.fallback(), err
	}

	dec, err := parseDecision(resp.Text)
	if err != nil {
		zap.L().Warn("classify: malformed response",
			zap.String("name", name),
			zap.String("raw", resp.Text),
			zap.Error(err),
		)
		return f.fallback(), err
	}
	return dec, nil
}

func (f *Filter) fallback() Decision {
	return Decision{Include: f.mode != ModeStrict, Industry: "Unknown"}
}

// parseDecision extracts the JSON object from the model output, tolerating
// code fences and surrounding prose.
func parseDecision(raw string) (Decision, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return Decision{}, eris.Errorf("classify: no JSON object in response")
	}

	var dec Decision
	if err := json.Unmarshal([]byte(raw[start:end+1]), &dec); err != nil {
		return Decision{}, eris.Wrap(err, "classify: unmarshal decision")
	}
	if dec.Industry == "" {
		dec.Industry = "Unknown"
	}
	return dec, nil
}
