package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fathomhq/fathom/internal/ai"
	"github.com/fathomhq/fathom/internal/utils"
)

// Cascade asks an ordered list of model candidates for a completion,
// substituting the next candidate when the current one reports a rate/quota
// limit. The cursor only moves forward and never wraps: a model found to be
// rate-limited is not asked again for the rest of the cascade's lifetime.
//
// A cascade is scoped to one query. Concurrent queries each build their own
// over the same shared client and candidate list, so a degraded backend
// discovered by one query never demotes the starting candidate for another.
type Cascade struct {
	runtime   ai.Runtime
	models    []string
	maxTokens int
	cursor    int
	logger    *log.Logger
}

// NewCascade builds a cascade over runtime trying models in order.
// maxTokens caps each completion; 0 leaves the backend default.
func NewCascade(runtime ai.Runtime, models []string, maxTokens int, logger *log.Logger) *Cascade {
	return &Cascade{runtime: runtime, models: models, maxTokens: maxTokens, logger: logger}
}

// Current returns the candidate the next Generate call will use, or "".
func (c *Cascade) Current() string {
	if c.cursor >= len(c.models) {
		return ""
	}
	return c.models[c.cursor]
}

// Generate requests a completion for msgs, starting at the current cursor
// position. On a quota signal it advances and retries the same request with
// the next candidate. It returns *QuotaExhaustedError once the list is
// exhausted, or *BackendError immediately for any non-quota failure.
func (c *Cascade) Generate(ctx context.Context, msgs []ai.Message) (string, error) {
	if len(c.models) == 0 {
		return "", fmt.Errorf("cascade has no model candidates")
	}
	var prompt strings.Builder
	for _, m := range msgs {
		prompt.WriteString(m.Content)
	}
	promptTokens := utils.CountTokens(prompt.String())
	for ; c.cursor < len(c.models); c.cursor++ {
		model := c.models[c.cursor]
		if mi, ok := ai.LookupModel(model); ok && promptTokens > mi.ContextTokens {
			c.logger.Printf("prompt (~%d tokens) may exceed %s context window (%d)", promptTokens, model, mi.ContextTokens)
		}
		resp, err := c.runtime.Generate(ctx, ai.GenerateRequest{
			Model:       model,
			Messages:    msgs,
			MaxTokens:   c.maxTokens,
			Temperature: 0,
		})
		if err == nil {
			return resp.Content(), nil
		}
		if isQuotaErr(err) {
			c.logger.Printf("model %s rate-limited, trying next candidate: %v", model, err)
			continue
		}
		return "", &BackendError{Model: model, Err: err}
	}
	c.logger.Printf("all %d cascade models rate-limited", len(c.models))
	return "", &QuotaExhaustedError{Tried: len(c.models)}
}

// quotaPhrases backs up typed classification for backends that bury the
// rate-limit signal in a message string.
var quotaPhrases = []string{
	"resource_exhausted",
	"quota",
	"rate limit",
	"429",
	"too many requests",
}

func isQuotaErr(err error) bool {
	var rle *ai.RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var qe *ai.QuotaExceededError
	if errors.As(err, &qe) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range quotaPhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
