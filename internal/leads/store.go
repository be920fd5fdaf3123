// Package leads persists captured visitor leads per tenant as JSON files
// under the configured data directory, with manual backup and restore.
package leads

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"leadscout/worker/logger"
)

var tenantSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Message is one turn of a lead's conversation with the bot.
type Message struct {
	Text        string    `json:"texto"`
	FromVisitor bool      `json:"doVisitante"`
	At          time.Time `json:"em"`
}

// Lead is one captured visitor.
type Lead struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	Telefone     string    `json:"telefone,omitempty"`
	URLOrigem    string    `json:"urlOrigem,omitempty"`
	RobotName    string    `json:"robotName,omitempty"`
	JourneyStage string    `json:"etapaJornada,omitempty"`
	CreatedAt    time.Time `json:"criadoEm"`
	UpdatedAt    time.Time `json:"atualizadoEm"`
	Conversation []Message `json:"conversa"`
}

// Store holds one tenant's leads, mirrored to a JSON file on every change.
type Store struct {
	mu     sync.Mutex
	dir    string
	tenant string
	leads  []*Lead
	log    *logger.Logger
}

// NewStore opens (or creates) the lead file for one tenant.
func NewStore(dataDir, tenantKey string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{
		dir:    dataDir,
		tenant: sanitizeTenant(tenantKey),
		leads:  []*Lead{},
		log:    logger.ForLeads().WithField("tenant", sanitizeTenant(tenantKey)),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func sanitizeTenant(tenantKey string) string {
	sanitized := tenantSanitizer.ReplaceAllString(tenantKey, "_")
	if sanitized == "" {
		sanitized = "default"
	}
	return sanitized
}

func (s *Store) filePath() string {
	return filepath.Join(s.dir, "leads_"+s.tenant+".json")
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lead file: %w", err)
	}

	var leads []*Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return fmt.Errorf("lead file is corrupt: %w", err)
	}
	s.leads = leads
	return nil
}

// save must be called with the mutex held.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.leads, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lead file: %w", err)
	}
	return os.Rename(tmp, s.filePath())
}

// Add stores a new lead, assigning its ID and timestamps.
func (s *Store) Add(lead *Lead) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	lead.ID = newLeadID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Conversation == nil {
		lead.Conversation = []Message{}
	}

	s.leads = append(s.leads, lead)
	if err := s.save(); err != nil {
		s.leads = s.leads[:len(s.leads)-1]
		return nil, err
	}

	s.log.Info().Str("leadId", lead.ID).Str("email", lead.Email).Msg("Lead captured")
	return lead, nil
}

// List returns a snapshot of every lead, newest first.
func (s *Store) List() []*Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Lead, len(s.leads))
	for i, lead := range s.leads {
		out[len(s.leads)-1-i] = lead
	}
	return out
}

// GetByID returns one lead or nil.
func (s *Store) GetByID(id string) *Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lead := range s.leads {
		if lead.ID == id {
			return lead
		}
	}
	return nil
}

// FindByEmail returns the first lead with the given email, or nil.
func (s *Store) FindByEmail(email string) *Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(email)
	for _, lead := range s.leads {
		if strings.ToLower(lead.Email) == lower {
			return lead
		}
	}
	return nil
}

// UpdateJourneyStage moves a lead to a new journey stage.
func (s *Store) UpdateJourneyStage(id, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lead := range s.leads {
		if lead.ID == id {
			lead.JourneyStage = stage
			lead.UpdatedAt = time.Now()
			return s.save()
		}
	}
	return fmt.Errorf("lead %s not found", id)
}

// AppendConversation records one conversation turn on a lead.
func (s *Store) AppendConversation(id, text string, fromVisitor bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lead := range s.leads {
		if lead.ID == id {
			lead.Conversation = append(lead.Conversation, Message{
				Text:        text,
				FromVisitor: fromVisitor,
				At:          time.Now(),
			})
			lead.UpdatedAt = time.Now()
			return s.save()
		}
	}
	return fmt.Errorf("lead %s not found", id)
}

// Count reports the number of stored leads.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

func newLeadID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("lead_%d", time.Now().UnixNano())
	}
	return "lead_" + hex.EncodeToString(buf)
}
