package extractor

import (
	"context"
	"fmt"
	"time"

	"leadscout/worker/logger"
)

const (
	retryBaseTimeout = 30 * time.Second
	retryTimeoutStep = 15 * time.Second
	retryBackoffStep = 2 * time.Second
)

// Placeholder content served when every attempt fails. The chatbot keeps
// answering from this instead of going silent.
const (
	placeholderTitle       = "Chatbot Inteligente"
	placeholderDescription = "Assistente virtual pronto para ajudar"
	placeholderCleanText   = "Este é um assistente virtual inteligente. Posso responder perguntas sobre produtos, preços, bônus e formas de contato. Como posso ajudar você hoje?"
	fallbackErrorMessage   = "extraction failed after %d attempts"
)

// ExtractWithRetry runs the extraction pipeline with per-attempt timeouts
// that grow 30s, 45s, 60s and linear backoff of 2s, 4s between attempts.
// When every attempt fails it returns a usable placeholder record rather
// than an error.
func (p *Pipeline) ExtractWithRetry(ctx context.Context, pageURL string) *Record {
	log := p.log.WithField("url", pageURL)

	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		timeout := retryBaseTimeout + time.Duration(attempt-1)*retryTimeoutStep

		record := p.extractWithTimeout(ctx, pageURL, timeout)
		if record != nil && hasUsableContent(record) {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("Extraction recovered after retry")
			}
			return record
		}

		log.Warn().
			Int("attempt", attempt).
			Int("maxRetries", p.maxRetries).
			Dur("timeout", timeout).
			Msg("Extraction attempt produced no content")

		if attempt < p.maxRetries {
			backoff := time.Duration(attempt) * retryBackoffStep
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return p.fallbackRecord(pageURL, log)
			}
		}
	}

	return p.fallbackRecord(pageURL, log)
}

// extractWithTimeout runs one attempt in a goroutine so a hung fetch cannot
// stall past the attempt budget.
func (p *Pipeline) extractWithTimeout(ctx context.Context, pageURL string, timeout time.Duration) *Record {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *Record, 1)
	go func() {
		done <- p.Extract(attemptCtx, pageURL)
	}()

	select {
	case record := <-done:
		return record
	case <-attemptCtx.Done():
		return nil
	}
}

// hasUsableContent reports whether a record carries anything the chatbot
// can answer from. Failed records are empty and fall through to retry.
func hasUsableContent(r *Record) bool {
	if r.Method == MethodFailed {
		return false
	}
	return r.CleanText != "" || r.Title != "" || r.Description != ""
}

func (p *Pipeline) fallbackRecord(pageURL string, log *logger.Logger) *Record {
	log.Error().Int("attempts", p.maxRetries).Msg("Extraction failed on every attempt, serving fallback")
	p.metricsSvc.ExtractionFailed()

	return &Record{
		Title:           placeholderTitle,
		Description:     placeholderDescription,
		Summary:         placeholderDescription,
		CleanText:       placeholderCleanText,
		BonusesDetected: []string{},
		PriceDetected:   []string{},
		Contacts:        NewContacts(pageURL),
		URL:             pageURL,
		Method:          MethodFallback,
		Error:           fmt.Sprintf(fallbackErrorMessage, p.maxRetries),
	}
}
