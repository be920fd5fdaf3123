package server

import "net/http"

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	list := store.List()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(list),
		"leads":   list,
	})
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	lead := store.GetByID(r.PathValue("id"))
	if lead == nil {
		s.writeError(w, http.StatusNotFound, "lead não encontrado")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lead":    lead,
	})
}

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	info, err := store.Backup()
	if err != nil {
		s.log.Error().Err(err).Msg("Backup failed")
		s.writeError(w, http.StatusInternalServerError, "não foi possível criar o backup")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"backup":  info,
	})
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	backups, err := store.ListBackups()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "não foi possível listar os backups")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"backups": backups,
	})
}

type restoreRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "filename é obrigatório")
		return
	}

	store, err := s.registry.StoreFor(tenantFrom(r).Key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "armazenamento de leads indisponível")
		return
	}

	if err := store.Restore(req.Filename); err != nil {
		s.log.Error().Err(err).Str("backup", req.Filename).Msg("Restore failed")
		s.writeError(w, http.StatusBadRequest, "não foi possível restaurar o backup")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}
