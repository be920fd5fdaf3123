package extractor

import (
	"context"

	"leadscout/worker/helpers"
	cerrors "leadscout/worker/pkg/errors"
)

// StaticStrategy fetches a page over plain HTTP and parses the returned
// HTML. It is the cheapest strategy and handles every server-rendered page.
type StaticStrategy struct{}

func NewStaticStrategy() *StaticStrategy { return &StaticStrategy{} }

func (s *StaticStrategy) Name() string { return MethodStaticFetch }

func (s *StaticStrategy) Available() bool { return true }

func (s *StaticStrategy) Fetch(ctx context.Context, url string) (*StrategyResult, error) {
	result, err := helpers.FetchHTML(url)
	if err != nil {
		return nil, cerrors.NewNetwork(url, "static fetch failed", err)
	}

	html := string(result.Body)
	content, err := parsePage(html)
	if err != nil {
		return nil, cerrors.NewParsing(url, "failed to parse fetched HTML", err)
	}

	return &StrategyResult{
		Method:   MethodStaticFetch,
		HTML:     html,
		FinalURL: result.FinalURL,
		Content:  content,
	}, nil
}
