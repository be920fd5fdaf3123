package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"leadscout/worker/config"
	"leadscout/worker/logger"
	cerrors "leadscout/worker/pkg/errors"
	"leadscout/worker/services/cache"
	"leadscout/worker/services/metrics"
)

const cacheKeyPrefix = "extract:"

// Pipeline runs the full extraction flow for one URL: cache lookup, the
// fetch strategy chain, heuristic post-processing and cache write-back.
type Pipeline struct {
	cacheSvc        cache.CacheService
	metricsSvc      *metrics.Service
	heuristics      *HeuristicExtractor
	contactsExt     *ContactExtractor
	strategies      []FetchStrategy
	cacheTTL        time.Duration
	minContentChars int
	maxRetries      int
	log             *logger.Logger
}

// NewPipeline wires a pipeline from the application configuration and the
// injected services.
func NewPipeline(cfg config.Config, cacheSvc cache.CacheService, metricsSvc *metrics.Service) *Pipeline {
	return &Pipeline{
		cacheSvc:    cacheSvc,
		metricsSvc:  metricsSvc,
		heuristics:  NewHeuristicExtractor(),
		contactsExt: NewContactExtractor(),
		strategies: []FetchStrategy{
			NewStaticStrategy(),
			NewHeadlessStrategy(cfg.ChromeDisabled),
		},
		cacheTTL:        cfg.CacheTTL,
		minContentChars: cfg.MinContentChars,
		maxRetries:      cfg.MaxRetries,
		log:             logger.ForExtractor(),
	}
}

// HeadlessAvailable reports whether the render fallback can run.
func (p *Pipeline) HeadlessAvailable() bool {
	for _, s := range p.strategies {
		if s.Name() == MethodHeadlessRender {
			return s.Available()
		}
	}
	return false
}

// Extract runs one extraction pass. It never returns an error: failures
// produce a Record with Method set to MethodFailed and the error message
// recorded, so callers always have something to respond with.
func (p *Pipeline) Extract(ctx context.Context, pageURL string) *Record {
	start := time.Now()

	if err := ValidateURL(pageURL); err != nil {
		p.metricsSvc.ExtractionFailed()
		return failedRecord(pageURL, err, time.Since(start))
	}

	if record := p.cacheGet(pageURL); record != nil {
		p.log.Debug().Str("url", pageURL).Msg("Cache hit")
		return record
	}

	result, err := runStrategies(ctx, p.strategies, pageURL, p.minContentChars, p.log)
	if err != nil {
		p.metricsSvc.ExtractionFailed()
		p.log.Error().Err(err).Str("url", pageURL).Msg("All fetch strategies failed")
		return failedRecord(pageURL, err, time.Since(start))
	}

	record := p.buildRecord(result, pageURL)
	record.ExtractionTimeMs = time.Since(start).Milliseconds()

	p.metricsSvc.ExtractionSucceeded()
	p.cacheSet(pageURL, record)

	p.log.Info().
		Str("url", pageURL).
		Str("method", record.Method).
		Int("chars", len(record.CleanText)).
		Int("bonuses", len(record.BonusesDetected)).
		Int64("elapsedMs", record.ExtractionTimeMs).
		Msg("Extraction finished")

	return record
}

// ExtractReport fetches the page statically and runs the full heuristic
// extractor over it. This is the input of the cross-source validator; it
// bypasses the cache so validation always sees fresh candidates.
func (p *Pipeline) ExtractReport(ctx context.Context, pageURL string) (*Report, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	static := NewStaticStrategy()
	result, err := static.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := newDocument(result.HTML)
	if err != nil {
		return nil, cerrors.NewParsing(pageURL, "failed to parse HTML for heuristics", err)
	}

	report := p.heuristics.Extract(doc, pageURL)
	p.log.Info().
		Str("url", pageURL).
		Int("bonuses", len(report.Bonuses)).
		Int("prices", len(report.Prices)).
		Int("sections", len(report.Sections)).
		Msg("Heuristic report built")

	return report, nil
}

// buildRecord turns the winning strategy result into a finalized Record.
func (p *Pipeline) buildRecord(result *StrategyResult, pageURL string) *Record {
	content := result.Content

	cleanText := content.CleanText
	title := content.Title
	if title == "" {
		title = fallbackTitle(cleanText)
	}
	summary := content.Summary
	if summary == "" {
		summary = strings.TrimSpace(content.Description)
	}

	contacts := NewContacts(pageURL)
	if doc, err := newDocument(result.HTML); err == nil {
		contacts = p.contactsExt.Extract(doc, pageURL)
	}

	return &Record{
		Title:           title,
		Description:     content.Description,
		Summary:         summary,
		CleanText:       cleanText,
		BonusesDetected: extractBonusLines(cleanText),
		PriceDetected:   extractPriceLines(cleanText),
		Contacts:        contacts,
		URL:             pageURL,
		Method:          result.Method,
	}
}

func (p *Pipeline) cacheGet(pageURL string) *Record {
	data, err := p.cacheSvc.Get(cacheKeyPrefix + pageURL)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			p.log.Warn().Err(err).Str("url", pageURL).Msg("Cache read failed")
		}
		return nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		p.log.Warn().Err(err).Str("url", pageURL).Msg("Discarding corrupt cache entry")
		_ = p.cacheSvc.Delete(cacheKeyPrefix + pageURL)
		return nil
	}
	return &record
}

func (p *Pipeline) cacheSet(pageURL string, record *Record) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := p.cacheSvc.Set(cacheKeyPrefix+pageURL, data, p.cacheTTL); err != nil {
		p.log.Warn().Err(err).Str("url", pageURL).Msg("Cache write failed")
	}
}

// ValidateURL rejects anything that is not an absolute http(s) URL before
// any network traffic happens.
func ValidateURL(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return cerrors.NewValidation(pageURL, "invalid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return cerrors.NewValidation(pageURL, "URL scheme must be http or https")
	}
	if parsed.Host == "" {
		return cerrors.NewValidation(pageURL, "URL host must not be empty")
	}
	return nil
}

func failedRecord(pageURL string, err error, elapsed time.Duration) *Record {
	return &Record{
		Title:            "",
		Description:      "",
		Summary:          "",
		CleanText:        "",
		BonusesDetected:  []string{},
		PriceDetected:    []string{},
		Contacts:         NewContacts(pageURL),
		URL:              pageURL,
		Method:           MethodFailed,
		ExtractionTimeMs: elapsed.Milliseconds(),
		Error:            err.Error(),
	}
}
