package metrics

import (
	"sync"
	"time"
)

const responseTimeWindow = 100

// Snapshot is a point-in-time copy of the service counters.
type Snapshot struct {
	TotalRequests         int64   `json:"totalRequests"`
	ChatRequests          int64   `json:"chatRequests"`
	ExtractRequests       int64   `json:"extractRequests"`
	Errors                int64   `json:"errors"`
	SuccessfulExtractions int64   `json:"successfulExtractions"`
	FailedExtractions     int64   `json:"failedExtractions"`
	LeadsCaptured         int64   `json:"leadsCaptured"`
	AvgResponseTimeMs     int64   `json:"avgResponseTime"`
	UptimeSeconds         float64 `json:"uptime"`
}

// Service tracks request and extraction counters. It is constructed once at
// startup and injected into the pipeline and the HTTP layer.
type Service struct {
	mu                    sync.Mutex
	totalRequests         int64
	chatRequests          int64
	extractRequests       int64
	errors                int64
	successfulExtractions int64
	failedExtractions     int64
	leadsCaptured         int64
	responseTimes         []time.Duration
	startTime             time.Time
}

// NewService creates a new metrics service
func NewService() *Service {
	return &Service{
		startTime: time.Now(),
	}
}

// RequestStarted increments the request counter.
func (s *Service) RequestStarted() {
	s.mu.Lock()
	s.totalRequests++
	s.mu.Unlock()
}

// RequestFinished records a completed request and whether it errored.
func (s *Service) RequestFinished(elapsed time.Duration, failed bool) {
	s.mu.Lock()
	s.responseTimes = append(s.responseTimes, elapsed)
	if len(s.responseTimes) > responseTimeWindow {
		s.responseTimes = s.responseTimes[1:]
	}
	if failed {
		s.errors++
	}
	s.mu.Unlock()
}

// ChatRequest increments the chat request counter.
func (s *Service) ChatRequest() {
	s.mu.Lock()
	s.chatRequests++
	s.mu.Unlock()
}

// ExtractRequest increments the extract request counter.
func (s *Service) ExtractRequest() {
	s.mu.Lock()
	s.extractRequests++
	s.mu.Unlock()
}

// ExtractionSucceeded increments the successful extraction counter.
func (s *Service) ExtractionSucceeded() {
	s.mu.Lock()
	s.successfulExtractions++
	s.mu.Unlock()
}

// ExtractionFailed increments the failed extraction counter.
func (s *Service) ExtractionFailed() {
	s.mu.Lock()
	s.failedExtractions++
	s.mu.Unlock()
}

// LeadCaptured increments the captured-lead counter.
func (s *Service) LeadCaptured() {
	s.mu.Lock()
	s.leadsCaptured++
	s.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var avg int64
	if len(s.responseTimes) > 0 {
		var total time.Duration
		for _, rt := range s.responseTimes {
			total += rt
		}
		avg = (total / time.Duration(len(s.responseTimes))).Milliseconds()
	}

	return Snapshot{
		TotalRequests:         s.totalRequests,
		ChatRequests:          s.chatRequests,
		ExtractRequests:       s.extractRequests,
		Errors:                s.errors,
		SuccessfulExtractions: s.successfulExtractions,
		FailedExtractions:     s.failedExtractions,
		LeadsCaptured:         s.leadsCaptured,
		AvgResponseTimeMs:     avg,
		UptimeSeconds:         time.Since(s.startTime).Seconds(),
	}
}
