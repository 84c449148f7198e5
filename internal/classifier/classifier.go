// Package classifier wraps the external language-model call used to
// tag tickets with a language/category pair or a complaint/resolved
// verdict (spec.md §4.3). Validation against the known sets lives here so
// the engine never has to trust raw model output.
package classifier

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/narvesen/supportbot/internal/apperr"
	"github.com/narvesen/supportbot/internal/metrics"
)

// Config selects the model endpoint, grounded on the teacher's
// provider/BaseURL switch (ai/core/llm/service.go).
type Config struct {
	APIKey  string
	Model   string // "gpt-5-mini", fallback "yi-lightning"
	BaseURL string
	Timeout time.Duration
}

// Client sends a single prompt to the model and returns its trimmed
// first-choice content, per spec.md §4.3.
type Client struct {
	openai  *openai.Client
	model   string
	timeout time.Duration
	metrics *metrics.Exporter // may be nil
}

func New(cfg Config, exporter *metrics.Exporter) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		openai:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
		metrics: exporter,
	}
}

// Classify sends prompt as a single user message and returns the trimmed
// content of the first completion. On network or non-2xx error it returns
// "" and logs, per spec.md §4.3 ("the engine does not trust the output").
// kind labels the prometheus metric ("lang_category" or "complaint_resolved").
func (c *Client) Classify(ctx context.Context, kind, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   64,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if c.metrics != nil {
		c.metrics.RecordClassifierCall(kind, time.Since(start), err)
	}
	if err != nil {
		slog.Warn("classifier: request failed", "error", apperr.NewClassifierError("Classify", err))
		return ""
	}
	if len(resp.Choices) == 0 {
		slog.Warn("classifier: empty response")
		return ""
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// KnownLangs and KnownCategories are the validated sets from spec.md §4.5.
var (
	KnownLangs = map[string]bool{
		"lv": true, "eng": true, "ru": true, "ee": true,
	}

	KnownCategories = map[string]bool{
		"cant_find_product_or_drop_or_dead_drop":  true,
		"dont_know_how_to_pay":                    true,
		"restock_request_for_product_or_location": true,
		"is_product_still_available":              true,
		"what_is_usual_product_arrival_time":      true,
		"user_says_thanks":                        true,
		"issue_resolved_by_user":                  true,
		"ok":                                       true,
		"wrong_drop_info":                          true,
		"payment_sent_but_no_drop":                 true,
		"less_product_received":                    true,
		"kladmen_or_packaging_complaint":           true,
		"bot_banned_or_deleted":                    true,
		"opinion_or_info_question":                 true,
		"closest_drop_to_x":                        true,
		"other":                                    true,
	}
)

// LangCategoryPrompt builds the single-line "lang:category" classifier
// prompt over the ticket's unread message texts.
func LangCategoryPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Classify the following user support messages. Respond with exactly one line in the form lang:category, where lang is one of lv,eng,ru,ee,other and category is one of: ")
	first := true
	for cat := range KnownCategories {
		if !first {
			b.WriteString(",")
		}
		b.WriteString(cat)
		first = false
	}
	b.WriteString(".\n\nMessages:\n")
	for _, t := range texts {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}

// ComplaintResolvedPrompt builds the binary Complaint|Resolved prompt used
// by subroutine B (spec.md §4.5).
func ComplaintResolvedPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("The user already has an open support issue about a missing drop. Based on the following new messages, respond with exactly one word: Complaint or Resolved.\n\nMessages:\n")
	for _, t := range texts {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}

// ParseLangCategory parses and validates the model's "lang:category" line,
// substituting "other" for either field when the line is malformed or the
// value isn't recognized (spec.md §4.5 step 5).
func ParseLangCategory(line string) (lang, category string) {
	parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
	lang, category = "other", "other"
	if len(parts) == 2 {
		if KnownLangs[strings.TrimSpace(parts[0])] {
			lang = strings.TrimSpace(parts[0])
		}
		if KnownCategories[strings.TrimSpace(parts[1])] {
			category = strings.TrimSpace(parts[1])
		}
	}
	return lang, category
}

// IsComplaint reports whether the model's binary verdict reads as
// "Complaint"; any other response (including failure) defaults to
// Complaint per spec.md §4.3 ("substitutes other/Complaint defaults").
func IsComplaint(verdict string) bool {
	return !strings.EqualFold(strings.TrimSpace(verdict), "Resolved")
}
