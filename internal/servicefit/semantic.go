package servicefit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/resilience"
	"github.com/sells-group/buyer-match/pkg/anthropic"
)

const semanticSystemPrompt = `You compare the service mix of an acquisition target against a buyer's service criteria.
Treat synonyms as matches (for example "auto body" and "collision repair").
Respond with only a JSON object of this shape:
{"score": <0-100>, "alignment": "strong|good|partial|weak|conflict", "reasoning": "<one or two sentences>",
 "matched_services": ["..."], "conflicting_services": ["..."], "confidence": "high|medium|low"}`

// SemanticConfig configures the AI scorer.
type SemanticConfig struct {
	Model             string
	MaxTokens         int64
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	BreakerThreshold  int
	BreakerReset      time.Duration
}

// SemanticScorer asks a Claude model to judge service fit.
type SemanticScorer struct {
	client anthropic.Client
	cfg    SemanticConfig
	guard  *resilience.Guard
}

// NewSemanticScorer creates a semantic scorer with its own breaker and limiter.
func NewSemanticScorer(client anthropic.Client, cfg SemanticConfig) *SemanticScorer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	breaker := resilience.NewBreaker(cfg.BreakerThreshold, cfg.BreakerReset)
	breaker.OnStateChange(func(_, to resilience.CircuitState) {
		metrics.AICircuitState.Set(float64(to))
	})

	return &SemanticScorer{
		client: client,
		cfg:    cfg,
		guard: &resilience.Guard{
			Breaker: breaker,
			Limiter: resilience.NewAdaptiveLimiter(cfg.RequestsPerSecond, 1),
			Policy: resilience.Policy{
				Attempts:  cfg.MaxRetries + 1,
				Backoff:   time.Second,
				Jitter:    0.25,
				Retryable: retryable,
				OnRetry:   resilience.RetryLogger("servicefit", "create_message"),
			},
			StatusOf: anthropic.StatusCode,
		},
	}
}

// CircuitState reports the state of the scorer's circuit breaker.
func (s *SemanticScorer) CircuitState() resilience.CircuitState {
	return s.guard.Breaker.State()
}

// retryable retries server errors and network blips but never quota errors.
func retryable(err error) bool {
	if status := anthropic.StatusCode(err); status != 0 {
		return resilience.IsRetryableStatus(status)
	}
	return resilience.IsTransient(err)
}

// Score calls the model and validates its answer. Alignment is recomputed
// from the returned score so both paths share one threshold table.
func (s *SemanticScorer) Score(ctx context.Context, in Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req := anthropic.MessageRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(semanticSystemPrompt, "5m"),
		Messages:  []anthropic.Message{{Role: "user", Content: buildPrompt(in)}},
	}
	temp := 0.0
	req.Temperature = &temp

	resp, err := resilience.Call(ctx, s.guard, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "servicefit: semantic score")
	}
	resp.Usage.LogCost(s.cfg.Model, "service_fit")

	return parseSemantic(resp.Text())
}

func buildPrompt(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Deal services:\n%s\n\n", orNone(in.DealServices))
	fmt.Fprintf(&sb, "Required services: %s\n", joinOrNone(in.Criteria.Required))
	fmt.Fprintf(&sb, "Preferred services: %s\n", joinOrNone(in.Criteria.Preferred))
	fmt.Fprintf(&sb, "Excluded services: %s\n\n", joinOrNone(in.Criteria.Excluded))
	fmt.Fprintf(&sb, "Buyer services offered:\n%s\n", orNone(in.BuyerServices))
	fmt.Fprintf(&sb, "Buyer target services: %s\n", joinOrNone(in.BuyerTargetServices))
	return sb.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func joinOrNone(list []string) string {
	return orNone(strings.Join(list, ", "))
}

type semanticResponse struct {
	Score               *float64 `json:"score"`
	Alignment           string   `json:"alignment"`
	Reasoning           string   `json:"reasoning"`
	MatchedServices     []string `json:"matched_services"`
	ConflictingServices []string `json:"conflicting_services"`
	Confidence          string   `json:"confidence"`
}

// ErrInvalidResponse marks model output that is not a usable result.
var ErrInvalidResponse = eris.New("servicefit: invalid semantic response")

func parseSemantic(text string) (*Result, error) {
	var raw semanticResponse
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrapf(ErrInvalidResponse, "unmarshal: %v", err)
	}
	if raw.Score == nil || *raw.Score < 0 || *raw.Score > 100 {
		return nil, eris.Wrap(ErrInvalidResponse, "score missing or outside [0,100]")
	}

	conf := Confidence(strings.ToLower(raw.Confidence))
	switch conf {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		conf = ConfidenceMedium
	}

	matched := normalizeTerms(raw.MatchedServices)
	conflicts := normalizeTerms(raw.ConflictingServices)
	return &Result{
		Score:               *raw.Score,
		Alignment:           AlignmentFor(*raw.Score, len(matched), len(conflicts)),
		MatchedServices:     matched,
		ConflictingServices: conflicts,
		Confidence:          conf,
		Reasoning:           strings.TrimSpace(raw.Reasoning),
		UsedAI:              true,
	}, nil
}

// cleanJSON strips markdown fences and extracts the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
