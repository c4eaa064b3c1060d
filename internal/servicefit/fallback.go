package servicefit

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/resilience"
	"github.com/sells-group/buyer-match/pkg/anthropic"
)

// FallbackScorer tries the semantic scorer and falls back to keywords on
// any failure. With no semantic scorer it scores by keyword only.
type FallbackScorer struct {
	semantic Scorer
	keyword  *KeywordScorer
	log      *zap.Logger
}

// NewFallbackScorer creates the orchestrator. semantic may be nil.
func NewFallbackScorer(semantic Scorer, keyword *KeywordScorer) *FallbackScorer {
	if keyword == nil {
		keyword = NewKeywordScorer(DefaultWeights())
	}
	return &FallbackScorer{
		semantic: semantic,
		keyword:  keyword,
		log:      zap.L().With(zap.String("component", "servicefit")),
	}
}

// Score always returns a result.
func (f *FallbackScorer) Score(ctx context.Context, in Input) Result {
	if f.semantic != nil {
		res, err := f.semantic.Score(ctx, in)
		if err == nil && res != nil {
			metrics.ServiceFitScores.WithLabelValues("ai").Inc()
			return *res
		}
		reason := fallbackReason(err)
		metrics.AIFallbacks.WithLabelValues(reason).Inc()
		f.log.Warn("semantic service fit failed, using keyword scorer",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}

	metrics.ServiceFitScores.WithLabelValues("keyword").Inc()
	return *f.keyword.score(in)
}

var quotaReasons = map[int]string{
	http.StatusPaymentRequired: "payment_required",
	http.StatusTooManyRequests: "rate_limited",
}

func fallbackReason(err error) string {
	status := anthropic.StatusCode(err)
	switch {
	case err == nil:
		return "empty_response"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case resilience.IsQuotaStatus(status):
		return quotaReasons[status]
	case status != 0:
		return "http_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
