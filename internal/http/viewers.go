package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinerec/cinerec/internal/domain"
	"github.com/cinerec/cinerec/internal/repository"
)

type viewerCreateRequest struct {
	Username string `json:"username"`
	Age      *int   `json:"age"`
}

type viewerAgeRequest struct {
	Age *int `json:"age"`
}

type viewerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Age      *int   `json:"age,omitempty"`
}

type preferenceEntry struct {
	Genre  string  `json:"genre"`
	Weight float64 `json:"weight"`
}

type preferencesRequest struct {
	Genres []preferenceEntry `json:"genres"`
}

type preferencesResponse struct {
	ViewerID string            `json:"viewerId"`
	Genres   []preferenceEntry `json:"genres"`
}

// recommendationResponse projects one engine result. Field order is part of
// the contract: id, title, genre, year, score.
type recommendationResponse struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Genre string  `json:"genre"`
	Year  int     `json:"year"`
	Score float64 `json:"score"`
}

func (s *Server) handleCreateViewer(w http.ResponseWriter, r *http.Request) {
	var req viewerCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username is required")
		return
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 120) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "age must lie within [0,120]")
		return
	}

	viewer, err := s.repo.Viewers.Create(r.Context(), repository.ViewerCreateParams{
		Username: req.Username,
		Age:      req.Age,
	})
	if err != nil {
		s.logger.Printf("create viewer error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create viewer")
		return
	}
	s.respondJSON(w, http.StatusCreated, toViewerResponse(viewer))
}

func (s *Server) handleUpdateViewerAge(w http.ResponseWriter, r *http.Request) {
	viewerID := chi.URLParam(r, "viewerID")
	if viewerID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing viewer id")
		return
	}

	var req viewerAgeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 120) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "age must lie within [0,120]")
		return
	}

	viewer, err := s.repo.Viewers.UpdateAge(r.Context(), viewerID, req.Age)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("update viewer age error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update viewer")
		return
	}
	s.respondJSON(w, http.StatusOK, toViewerResponse(viewer))
}

func (s *Server) handleReplacePreferences(w http.ResponseWriter, r *http.Request) {
	viewerID := chi.URLParam(r, "viewerID")
	if viewerID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing viewer id")
		return
	}

	if _, err := s.repo.Viewers.GetByID(r.Context(), viewerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("fetch viewer for preferences failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update preferences")
		return
	}

	var req preferencesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	seen := make(map[string]struct{}, len(req.Genres))
	params := make([]repository.PreferenceParams, 0, len(req.Genres))
	for _, entry := range req.Genres {
		genre := strings.TrimSpace(entry.Genre)
		if genre == "" {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "genre entries must be non-empty")
			return
		}
		if entry.Weight < 0 {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "weight must be non-negative")
			return
		}
		if _, dup := seen[genre]; dup {
			continue
		}
		seen[genre] = struct{}{}
		params = append(params, repository.PreferenceParams{Genre: genre, Weight: entry.Weight})
	}

	if err := s.repo.Preferences.Replace(r.Context(), viewerID, params); err != nil {
		s.logger.Printf("replace preferences error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update preferences")
		return
	}

	stored, err := s.repo.Preferences.ByViewer(r.Context(), viewerID)
	if err != nil {
		s.logger.Printf("load preferences error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update preferences")
		return
	}

	resp := preferencesResponse{ViewerID: viewerID, Genres: make([]preferenceEntry, 0, len(stored))}
	for _, p := range stored {
		resp.Genres = append(resp.Genres, preferenceEntry{Genre: p.Genre, Weight: p.Weight})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	viewerID := chi.URLParam(r, "viewerID")
	if viewerID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing viewer id")
		return
	}

	count, err := parseCount(r.URL.Query().Get("count"), s.cfg.RecommendCount)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	recs, err := s.engine.Recommend(r.Context(), viewerID, count)
	if err != nil {
		s.logger.Printf("recommendations error for viewer %s: %v", viewerID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations")
		return
	}

	items := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recommendationResponse{
			ID:    rec.Movie.ID,
			Title: rec.Movie.Title,
			Genre: rec.Movie.Genre,
			Year:  rec.Movie.Year,
			Score: rec.Score,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func toViewerResponse(viewer domain.Viewer) viewerResponse {
	return viewerResponse{ID: viewer.ID, Username: viewer.Username, Age: viewer.Age}
}

func parseCount(raw string, fallback int) (int, error) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return fallback, nil
	}
	count, err := strconv.Atoi(val)
	if err != nil || count <= 0 {
		return 0, errors.New("count must be a positive integer")
	}
	if count > 100 {
		count = 100
	}
	return count, nil
}
