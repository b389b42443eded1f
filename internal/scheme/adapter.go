// Package scheme generates a Scheme of Learning document from the
// current planning state via a single completion call.
package scheme

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/jgalan247/schemeofLearning/internal/ai"
	"github.com/jgalan247/schemeofLearning/internal/planning"
	"github.com/jgalan247/schemeofLearning/internal/platform/cache"
)

// Scheme is the generated document. It has no enforced shape beyond
// "valid JSON object"; consumers must presence-check every field.
type Scheme = map[string]any

// Stages at which synthesis can fail.
const (
	StageCall    = "call"
	StageExtract = "extract"
	StageParse   = "parse"
)

// GenerationError reports a failed synthesis attempt with the stage it
// failed at and the underlying cause.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("scheme generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Synthesizer builds prompts from planning state and turns completion
// responses into Scheme documents.
type Synthesizer struct {
	provider  ai.Provider
	cache     *cache.Cache
	cacheTTL  time.Duration
	model     string
	maxTokens int
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCache enables response caching with the given TTL.
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *Synthesizer) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithModel overrides the provider's default completion model.
func WithModel(model string) Option {
	return func(s *Synthesizer) {
		s.model = model
	}
}

// WithMaxTokens overrides the completion token limit.
func WithMaxTokens(n int) Option {
	return func(s *Synthesizer) {
		s.maxTokens = n
	}
}

// NewSynthesizer creates a Synthesizer backed by the given provider.
func NewSynthesizer(provider ai.Provider, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		provider:  provider,
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize runs one completion call and parses the result. No retry is
// performed; the caller surfaces the error and re-invokes manually.
func (s *Synthesizer) Synthesize(ctx context.Context, plan planning.Plan) (Scheme, error) {
	prompt := BuildPrompt(plan)

	content, cached := s.cachedResponse(ctx, prompt)
	if !cached {
		resp, err := s.provider.Complete(ctx, ai.Request{
			System:    systemPrompt,
			Prompt:    prompt,
			Model:     s.model,
			MaxTokens: s.maxTokens,
		})
		if err != nil {
			return nil, &GenerationError{Stage: StageCall, Err: err}
		}
		content = resp.Content
		s.storeResponse(ctx, prompt, content)

		slog.Info("scheme synthesized",
			"model", resp.Model,
			"input_tokens", resp.InputTokens,
			"output_tokens", resp.OutputTokens,
		)
	}

	raw, ok := ExtractObject(content)
	if !ok {
		return nil, &GenerationError{Stage: StageExtract, Err: fmt.Errorf("no JSON object in response")}
	}

	var doc Scheme
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &GenerationError{Stage: StageParse, Err: err}
	}
	return doc, nil
}

func (s *Synthesizer) cachedResponse(ctx context.Context, prompt string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	var content string
	hit, err := s.cache.GetJSON(ctx, cacheKey(prompt), &content)
	if err != nil {
		slog.Warn("scheme cache read failed", "error", err)
		return "", false
	}
	return content, hit
}

func (s *Synthesizer) storeResponse(ctx context.Context, prompt, content string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, cacheKey(prompt), content, s.cacheTTL); err != nil {
		slog.Warn("scheme cache write failed", "error", err)
	}
}

func cacheKey(prompt string) string {
	sum := blake2b.Sum256([]byte(prompt))
	return fmt.Sprintf("scheme:%x", sum[:16])
}

const systemPrompt = `You are an expert UK secondary school curriculum planner. You produce half-term Schemes of Learning aligned with UK teaching standards. Return ONLY valid JSON.`

// BuildPrompt serializes the planning state into the completion prompt.
func BuildPrompt(plan planning.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a detailed Scheme of Learning for:\n\n")
	fmt.Fprintf(&b, "Specification: %s\n", plan.SpecName)
	fmt.Fprintf(&b, "Year Group: %s\n", plan.YearGroup)
	fmt.Fprintf(&b, "Academic Year: %s\n", plan.AcademicYear)
	fmt.Fprintf(&b, "Total Teaching Weeks: %d\n\n", plan.TotalTeachingWeeks())

	b.WriteString("Topics to cover, in order:\n")
	for _, t := range plan.EnabledTopics() {
		fmt.Fprintf(&b, "- %s (%d weeks)", t.Title, t.SuggestedWeeks)
		if len(t.Subtopics) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(t.Subtopics, "; "))
		}
		b.WriteString("\n")
	}

	if len(plan.Units) > 0 {
		b.WriteString("\nExisting medium-term units:\n")
		for _, u := range plan.Units {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", u.UnitTitle, u.TermPosition, u.Duration)
		}
	}

	b.WriteString(`
Return a JSON object with this exact structure:
{
  "overview": "One-paragraph summary of the scheme",
  "units": [
    {
      "title": "Unit title",
      "termPosition": "Autumn 1",
      "duration": "6 weeks",
      "keyObjectives": "Objectives starting with action verbs",
      "priorLearning": "Assumed prior knowledge",
      "keyVocabulary": "Comma-separated key terms",
      "assessmentFocus": "What is assessed and how",
      "weeks": [
        {
          "weekNumber": 1,
          "focusTopic": "Focus for the week",
          "learningObjectives": "One objective per line",
          "keyActivities": "One activity per line, five lines for a five-lesson week",
          "assessment": "Formative assessment for the week",
          "homework": "Homework task"
        }
      ]
    }
  ]
}

Make the scheme practical and aligned with UK teaching standards. Return ONLY valid JSON.`)

	return b.String()
}
