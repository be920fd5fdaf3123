package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"leadscout/worker/internal/extractor"
	"leadscout/worker/internal/journey"
	"leadscout/worker/internal/leads"
	"leadscout/worker/internal/responder"
	"leadscout/worker/services/publisher"
)

type extractRequest struct {
	URL       string `json:"url"`
	RobotName string `json:"robotName"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	s.metricsSvc.ExtractRequest()

	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := extractor.ValidateURL(req.URL); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := s.pipeline.ExtractWithRetry(r.Context(), req.URL)
	s.publishRecord(record)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    record,
	})
}

func (s *Server) handleExtractEnhanced(w http.ResponseWriter, r *http.Request) {
	s.metricsSvc.ExtractRequest()

	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := extractor.ValidateURL(req.URL); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.pipeline.ExtractReport(r.Context(), req.URL)
	if err != nil {
		s.log.Error().Err(err).Str("url", req.URL).Msg("Enhanced extraction failed")
		s.writeError(w, http.StatusBadGateway, "não foi possível extrair a página")
		return
	}

	result := s.validator.Validate(report)
	corrected := result.Apply(report)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"data":      corrected,
		"validacao": result,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	LeadID  string `json:"leadId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.metricsSvc.ChatRequest()

	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message é obrigatório")
		return
	}

	stage := journey.Classify(req.Message)

	var record *extractor.Record
	if req.URL != "" {
		if err := extractor.ValidateURL(req.URL); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		record = s.pipeline.ExtractWithRetry(r.Context(), req.URL)
	}

	answer := responder.Respond(req.Message, record, stage)

	if req.LeadID != "" {
		s.recordConversation(r, req.LeadID, req.Message, answer, stage)
	}

	response := map[string]any{
		"success":      true,
		"response":     answer,
		"etapaJornada": stage,
	}
	if record != nil {
		response["pageData"] = map[string]any{
			"title":            record.Title,
			"method":           record.Method,
			"bonuses_detected": record.BonusesDetected,
			"price_detected":   record.PriceDetected,
			"contatos":         record.Contacts,
		}
	}
	s.writeJSON(w, http.StatusOK, response)
}

// recordConversation appends both turns to the lead's history. Failures are
// logged, not surfaced: losing a history line must not break the chat.
func (s *Server) recordConversation(r *http.Request, leadID, message, answer, stage string) {
	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.log.Warn().Err(err).Msg("Lead store unavailable")
		return
	}
	if store.GetByID(leadID) == nil {
		return
	}
	if err := store.AppendConversation(leadID, message, true); err != nil {
		s.log.Warn().Err(err).Str("leadId", leadID).Msg("Failed to record visitor turn")
	}
	if err := store.AppendConversation(leadID, answer, false); err != nil {
		s.log.Warn().Err(err).Str("leadId", leadID).Msg("Failed to record bot turn")
	}
	if err := store.UpdateJourneyStage(leadID, stage); err != nil {
		s.log.Warn().Err(err).Str("leadId", leadID).Msg("Failed to update journey stage")
	}
}

type captureLeadRequest struct {
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	URLOrigem string `json:"url_origem"`
	RobotName string `json:"robotName"`
	Message   string `json:"message"`
}

func (s *Server) handleCaptureLead(w http.ResponseWriter, r *http.Request) {
	var req captureLeadRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		s.writeError(w, http.StatusBadRequest, "email é obrigatório")
		return
	}

	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	if existing := store.FindByEmail(req.Email); existing != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"duplicate": true,
			"lead":      existing,
		})
		return
	}

	stage := journey.StageDiscovery
	if req.Message != "" {
		stage = journey.Classify(req.Message)
	}

	lead, err := store.Add(&leads.Lead{
		Nome:         req.Nome,
		Email:        req.Email,
		Telefone:     extractor.NormalizeBrazilianPhone(req.Telefone),
		URLOrigem:    req.URLOrigem,
		RobotName:    req.RobotName,
		JourneyStage: stage,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "não foi possível salvar o lead")
		return
	}

	s.metricsSvc.LeadCaptured()
	s.publishLead(lead)

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"lead":    lead,
	})
}

func (s *Server) publishRecord(record *extractor.Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(publisher.EventPageExtracted, payload); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish extraction event")
	}
}

func (s *Server) publishLead(lead *leads.Lead) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(publisher.EventLeadCaptured, payload); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish lead event")
	}
}
