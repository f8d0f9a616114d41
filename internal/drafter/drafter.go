// Package drafter asks a language model for a graded passage together with its
// answer keys and cloze candidates. Nothing it returns is trusted: offsets from
// a model are routinely off, so callers always validate the result.
package drafter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/clozer/internal/domain"
)

var (
	// ErrNoAPIKey is returned when a provider is configured without credentials.
	ErrNoAPIKey = errors.New("llm api key not set")
	// ErrInvalidRequest is returned for requests a model should never see.
	ErrInvalidRequest = errors.New("invalid draft request")
)

// Level bounds, A1 through C2.
const (
	MinLevel = 1
	MaxLevel = 6
)

// Provider completes a single prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Request describes the passage to draft. When Text is set the model
// annotates it instead of writing a new one.
type Request struct {
	Lang  domain.Lang
	Level int
	Topic string
	Text  string
}

// Result is the model's passage and its raw candidates.
type Result struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	domain.Candidates
}

// Drafter turns requests into prompts and parses what comes back.
type Drafter struct {
	provider Provider
}

// New creates a Drafter on top of p.
func New(p Provider) *Drafter {
	return &Drafter{provider: p}
}

// Close releases the provider.
func (d *Drafter) Close() error {
	return d.provider.Close()
}

// Draft asks the provider for a passage and its candidates.
func (d *Drafter) Draft(ctx context.Context, req Request) (*Result, error) {
	if err := req.check(); err != nil {
		return nil, err
	}

	resp, err := d.provider.Complete(ctx, buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}

	res, err := parseResponse(resp)
	if err != nil {
		return nil, err
	}
	if req.Text != "" {
		// offsets refer to the submitted text, whatever the model echoed
		res.Text = req.Text
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, fmt.Errorf("parse response: empty passage")
	}
	return res, nil
}

func (r Request) check() error {
	if !r.Lang.Supported() {
		return fmt.Errorf("draft %q: %w", r.Lang, domain.ErrUnsupportedLanguage)
	}
	if r.Level < MinLevel || r.Level > MaxLevel {
		return fmt.Errorf("%w: level %d outside %d..%d", ErrInvalidRequest, r.Level, MinLevel, MaxLevel)
	}
	if strings.TrimSpace(r.Topic) == "" && strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: topic or text is required", ErrInvalidRequest)
	}
	return nil
}

var langNames = map[domain.Lang]string{
	domain.English:  "English",
	domain.Japanese: "Japanese",
	domain.Chinese:  "Simplified Chinese",
}

var levelNames = []string{"", "A1", "A2", "B1", "B2", "C1", "C2"}

func buildPrompt(req Request) string {
	var sb strings.Builder

	lang := langNames[req.Lang]
	if req.Text != "" {
		fmt.Fprintf(&sb, "Annotate this %s reading passage for a CEFR %s learner. Return JSON only.\n\n", lang, levelNames[req.Level])
		sb.WriteString("Passage:\n")
		sb.WriteString(req.Text)
		sb.WriteString("\n\n")
	} else {
		fmt.Fprintf(&sb, "Write a %s reading passage of 4 to 8 sentences for a CEFR %s learner about: %s\n", lang, levelNames[req.Level], req.Topic)
		sb.WriteString("Then annotate it. Return JSON only.\n\n")
	}

	sb.WriteString(`Return a JSON object with this structure:
{
  "title": "short title",
  "text": "the passage, exactly as annotated",
  "keys": {
    "pass1": [{"span": [start, end], "surface": "however", "tag": "connective"}],
    "pass2": [{"pron": [start, end], "antecedents": [[start, end]]}],
    "pass3": [{"s": [start, end], "v": [start, end], "o": [start, end]}]
  },
  "cloze_short": [{"start": 0, "end": 5, "answer": "exact text", "hint": "short hint", "type": "collocation"}],
  "cloze_long": [{"start": 0, "end": 5, "answer": "exact text", "hint": "short hint", "type": "grammar"}]
}

Rules:
- Offsets are UTF-16 code units into "text", end exclusive
- "surface" and "answer" must equal the text between start and end
- pass1 tags are "connective" or "time"
- pass2 antecedents precede the pronoun in the same sentence, nearest first
- pass3 spans are subject, verb, object of one clause, in reading order
- cloze_short: at most one blank in every other sentence
- cloze_long: at most one blank per sentence
- Blanks never overlap

Return ONLY the JSON, no other text.`)

	return sb.String()
}

func parseResponse(resp string) (*Result, error) {
	// Clean up response - remove markdown code blocks if present
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	// tolerate a sentence of chatter around the object
	if i, j := strings.Index(resp, "{"), strings.LastIndex(resp, "}"); i > 0 && j > i {
		resp = resp[i : j+1]
	}

	var result Result
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("parse json: %w (response: %s)", err, truncate(resp, 200))
	}
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// Open builds the provider named in opts.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "anthropic":
		p, err := NewAnthropic(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "gemini":
		p, err := NewGemini(ctx, opts.APIKey, opts.Model, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
