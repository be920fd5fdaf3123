package extractor

import (
	"context"

	"leadscout/worker/logger"
	cerrors "leadscout/worker/pkg/errors"
)

// StrategyResult is one strategy's attempt at a page. HTML keeps the raw
// payload so the pipeline can run heuristics over the winning document.
type StrategyResult struct {
	Method   string
	HTML     string
	FinalURL string
	Content  *pageContent
}

// Confidence scores a result for chain comparison. Longer clean text means
// the strategy saw more of the page.
func (r *StrategyResult) Confidence() int {
	if r == nil || r.Content == nil {
		return 0
	}
	return len(r.Content.CleanText)
}

// FetchStrategy fetches and parses one URL. Strategies are tried in order;
// a later strategy only replaces an earlier result when strictly better.
type FetchStrategy interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, url string) (*StrategyResult, error)
}

// runStrategies walks the ordered strategy list. The first result meeting
// minContentChars wins outright; otherwise every remaining strategy runs
// and the longest clean text is kept.
func runStrategies(ctx context.Context, strategies []FetchStrategy, url string, minContentChars int, log *logger.Logger) (*StrategyResult, error) {
	var best *StrategyResult
	var lastErr error

	for _, strategy := range strategies {
		if !strategy.Available() {
			log.Debug().Str("strategy", strategy.Name()).Msg("Strategy unavailable, skipping")
			continue
		}

		result, err := strategy.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).
				Str("strategy", strategy.Name()).
				Str("url", url).
				Msg("Fetch strategy failed")
			continue
		}

		if result.Confidence() > best.Confidence() {
			mergeContent(result, best)
			best = result
		}
		if best.Confidence() >= minContentChars {
			return best, nil
		}

		log.Debug().
			Str("strategy", strategy.Name()).
			Int("chars", result.Confidence()).
			Int("min", minContentChars).
			Msg("Content below threshold, trying next strategy")
	}

	if best != nil {
		return best, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, cerrors.New(cerrors.ErrorTypeConfiguration, url, "no fetch strategy available", nil)
}

// mergeContent backfills fields the winning strategy missed from the result
// it replaces. A rendered page with more text can still lose the title a
// simpler fetch saw.
func mergeContent(winner, previous *StrategyResult) {
	if winner == nil || winner.Content == nil || previous == nil || previous.Content == nil {
		return
	}
	if winner.Content.Title == "" {
		winner.Content.Title = previous.Content.Title
	}
	if winner.Content.Description == "" {
		winner.Content.Description = previous.Content.Description
	}
}
