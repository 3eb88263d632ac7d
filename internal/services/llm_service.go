package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/xeipuuv/gojsonschema"
)

const maxAdvertLength = 20000

// PostingDraft is a posting pre-filled from a pasted job advert. The
// employer reviews it before submitting it as a real posting.
type PostingDraft struct {
	Title       string  `json:"title"`
	Position    string  `json:"position"`
	Salary      *string `json:"salary"`
	Requirement string  `json:"requirement"`
	Description string  `json:"description"`
	ApplyDate   *string `json:"apply_date"`
	EndDate     *string `json:"end_date"`
}

const draftSchema = `{
  "type": "object",
  "required": ["title", "position", "requirement", "description"],
  "properties": {
    "title":       {"type": "string", "minLength": 1},
    "position":    {"type": "string", "minLength": 1},
    "salary":      {"type": ["string", "null"]},
    "requirement": {"type": "string"},
    "description": {"type": "string"},
    "apply_date":  {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "end_date":    {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
  }
}`

const draftPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job advert and extract a job posting draft.

### INSTRUCTIONS:
1. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
2. **Extract** the following fields strictly.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Posting headline (e.g., Senior Backend Engineer at Acme)",
    "position": "The role itself (e.g., Backend Engineer)",
    "salary": "The salary string if explicitly mentioned, otherwise null",
    "requirement": "Skills and qualifications, one per line",
    "description": "A clean summary of responsibilities. Remove HTML tags.",
    "apply_date": "Date applications open as YYYY-MM-DD, otherwise null",
    "end_date": "Application deadline as YYYY-MM-DD, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// DraftExtractor turns job adverts into posting drafts with an LLM.
type DraftExtractor struct {
	client llms.Model
	schema *gojsonschema.Schema
	log    *slog.Logger
}

// NewGeminiExtractor returns an extractor backed by Gemini, or a disabled
// extractor when apiKey is empty.
func NewGeminiExtractor(ctx context.Context, apiKey, model string, log *slog.Logger) (*DraftExtractor, error) {
	if apiKey == "" {
		log.Warn("posting extraction disabled, GEMINI_API_KEY not set")
		return NewDraftExtractor(nil, log), nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewDraftExtractor(llm, log), nil
}

func NewDraftExtractor(client llms.Model, log *slog.Logger) *DraftExtractor {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(draftSchema))
	if err != nil {
		panic(fmt.Sprintf("posting draft schema: %v", err))
	}
	return &DraftExtractor{client: client, schema: schema, log: log}
}

func (e *DraftExtractor) Enabled() bool {
	return e.client != nil
}

func (e *DraftExtractor) ExtractDraft(ctx context.Context, rawHTML string) (*PostingDraft, error) {
	if !e.Enabled() {
		return nil, apperr.Unavailable("posting extraction is not configured")
	}
	if strings.TrimSpace(rawHTML) == "" {
		return nil, apperr.Validation("raw_html is required")
	}
	if len(rawHTML) > maxAdvertLength {
		rawHTML = rawHTML[:maxAdvertLength]
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, e.client, fmt.Sprintf(draftPrompt, rawHTML))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "posting extraction failed", err)
	}
	raw := stripCodeFence(resp)

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		e.log.Warn("extraction returned invalid JSON", slog.String("error", err.Error()))
		return nil, apperr.Wrap(apperr.KindUnavailable, "posting extraction returned malformed output", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		e.log.Warn("extraction failed schema validation", slog.String("errors", strings.Join(msgs, "; ")))
		return nil, apperr.Unavailable("posting extraction returned an incomplete draft")
	}

	var draft PostingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "posting extraction returned malformed output", err)
	}
	return &draft, nil
}

// stripCodeFence removes a markdown fence models add despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
