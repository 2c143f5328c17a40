// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/partlens/internal/legacy"
	"github.com/meshintel/partlens/pkg/types"
)

// analyzeRequest is the modern analysis request body.
type analyzeRequest struct {
	ComponentName        string `json:"component_name"`
	ComponentDescription string `json:"component_description"`
	Reference            string `json:"reference"`
}

// defaultReference tags queries that do not carry their own reference.
const defaultReference = "PARTLENS_VIS"

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ComponentName = strings.TrimSpace(req.ComponentName)
	req.ComponentDescription = strings.TrimSpace(req.ComponentDescription)
	if req.ComponentName == "" {
		s.respondError(w, http.StatusBadRequest, "component_name is required")
		return
	}
	if req.ComponentDescription == "" {
		s.respondError(w, http.StatusBadRequest, "component_description is required")
		return
	}
	if req.Reference == "" {
		req.Reference = defaultReference
	}

	s.logger.Info("analyzing component", zap.String("component", req.ComponentName))
	result := s.service.Analyze(r.Context(), req.ComponentName, req.ComponentDescription, req.Reference)

	if result.Success {
		s.logger.Info("analysis complete",
			zap.Int("patents", result.PatentCount), zap.Bool("cached", result.FromCache))
	} else {
		s.logger.Warn("analysis failed",
			zap.String("error_type", string(result.ErrorType)), zap.String("error", result.Error))
	}
	s.respondJSON(w, http.StatusOK, result)
}

// legacyAnalyzeRequest is the backward-compatible request body. The old
// consumer sends camelCase field names.
type legacyAnalyzeRequest struct {
	ComponentName        string `json:"componentName"`
	ComponentDescription string `json:"componentDescription"`
	Reference            string `json:"reference"`
}

// handleLegacyAnalyze serves the old response shape. When the live path
// cannot produce a successful result it falls back to simulation; the
// simulated payload always carries isSimulated true.
func (s *Server) handleLegacyAnalyze(w http.ResponseWriter, r *http.Request) {
	var req legacyAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ComponentName = strings.TrimSpace(req.ComponentName)
	if req.ComponentName == "" {
		s.respondError(w, http.StatusBadRequest, "componentName is required")
		return
	}
	if req.ComponentDescription == "" {
		req.ComponentDescription = req.ComponentName + " automotive component"
	}
	if req.Reference == "" {
		req.Reference = defaultReference
	}

	result := s.service.Analyze(r.Context(), req.ComponentName, req.ComponentDescription, req.Reference)

	var analysis types.LegacyAnalysis
	if result.Success {
		analysis = legacy.Convert(result, req.ComponentName)
	} else {
		s.logger.Warn("live analysis failed, serving simulation",
			zap.String("component", req.ComponentName),
			zap.String("error_type", string(result.ErrorType)))
		analysis = s.simulator.Simulate(req.ComponentName)
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"componentName": req.ComponentName,
		"analysisDate":  time.Now().Format(time.RFC3339),
		"cached":        result.FromCache,
		"analysis":      analysis,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  s.service.Status(),
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearCache(r.Context()); err != nil {
		s.logger.Error("cache clear failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "cache cleared",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
