package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/buyer-match/internal/adjust"
	"github.com/sells-group/buyer-match/internal/config"
	"github.com/sells-group/buyer-match/internal/dedupe"
	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/match"
	"github.com/sells-group/buyer-match/internal/servicefit"
	"github.com/sells-group/buyer-match/internal/store"
	"github.com/sells-group/buyer-match/pkg/anthropic"
)

// env wires the scoring components over an optional store.
type env struct {
	Store    store.Store
	Geo      *geo.Scorer
	Service  *servicefit.FallbackScorer
	Semantic *servicefit.SemanticScorer // nil when AI scoring is off
	Adjust   *adjust.Engine
	Match    *match.Service
	Dedupe   *dedupe.Matcher
}

func newEnv(c *config.Config, st store.Store) *env {
	e := &env{
		Store: st,
		Geo:   geo.NewScorer(c.Scoring.Geography),
	}
	e.Service, e.Semantic = newServiceScorer(c)
	if st != nil {
		e.Adjust = adjust.NewEngine(st)
		e.Match = match.NewService(st, e.Geo, e.Service, e.Adjust, c.Scoring.Concurrency)
		e.Dedupe = dedupe.NewMatcher(st, c.Dedupe)
	}
	return e
}

// Close releases the store.
func (e *env) Close() {
	if e.Store != nil {
		e.Store.Close() //nolint:errcheck
	}
}

func newServiceScorer(c *config.Config) (*servicefit.FallbackScorer, *servicefit.SemanticScorer) {
	sc := c.Scoring.Service
	keyword := servicefit.NewKeywordScorer(servicefit.WeightsFromConfig(sc))
	if !sc.UseAI || c.Anthropic.Key == "" {
		return servicefit.NewFallbackScorer(nil, keyword), nil
	}

	semantic := servicefit.NewSemanticScorer(anthropic.NewClient(c.Anthropic.Key), servicefit.SemanticConfig{
		Model:             c.Anthropic.HaikuModel,
		MaxTokens:         c.Anthropic.MaxTokens,
		Timeout:           time.Duration(sc.TimeoutSecs) * time.Second,
		MaxRetries:        sc.MaxRetries,
		RequestsPerSecond: sc.RequestsPerSecond,
		BreakerThreshold:  sc.BreakerThreshold,
		BreakerReset:      time.Duration(sc.BreakerResetSecs) * time.Second,
	})
	return servicefit.NewFallbackScorer(semantic, keyword), semantic
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{MaxConns: cfg.Store.MaxConns})
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initStoreEnv opens the configured store and wires every component over it.
func initStoreEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return newEnv(cfg, st), nil
}

// readJSONInput decodes a JSON document from path, or stdin when path is "-".
func readJSONInput(path string, stdin io.Reader, v any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "open %s", path)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return eris.Wrap(err, "decode input")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
