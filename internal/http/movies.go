package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinerec/cinerec/internal/domain"
	"github.com/cinerec/cinerec/internal/mpaa"
	"github.com/cinerec/cinerec/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

var knownTiers = map[string]struct{}{
	"G": {}, "PG": {}, "PG-13": {}, "R": {}, "NC-17": {},
}

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type movieCreateRequest struct {
	Title     string  `json:"title"`
	Genre     string  `json:"genre"`
	Year      int     `json:"year"`
	Director  string  `json:"director"`
	Cast      string  `json:"cast"`
	AgeRating *string `json:"ageRating"`
}

type movieResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Genre     string  `json:"genre"`
	Year      int     `json:"year"`
	Director  string  `json:"director,omitempty"`
	Cast      string  `json:"cast,omitempty"`
	AgeRating *string `json:"ageRating,omitempty"`
}

type movieListResponse struct {
	Items []movieResponse `json:"items"`
}

type ratingRequest struct {
	Rating float64 `json:"rating"`
	Review *string `json:"review"`
}

type ratingResponse struct {
	MovieID  string  `json:"movieId"`
	ViewerID string  `json:"viewerId"`
	Rating   float64 `json:"rating"`
}

type tieredMovieResponse struct {
	Title      string  `json:"title"`
	AgeRating  string  `json:"ageRating"`
	Popularity float64 `json:"popularity"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
		limit = parsed
	}

	movies, err := s.repo.Movies.Search(r.Context(), query.Get("q"), query.Get("genre"), limit)
	if err != nil {
		s.logger.Printf("list movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{Items: items})
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return
	}
	if req.AgeRating != nil {
		tier := strings.TrimSpace(*req.AgeRating)
		if _, ok := knownTiers[tier]; !ok {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "ageRating must be one of G, PG, PG-13, R, NC-17")
			return
		}
		req.AgeRating = &tier
	}

	movie, err := s.repo.Movies.Create(r.Context(), repository.MovieCreateParams{
		Title:     strings.TrimSpace(req.Title),
		Genre:     strings.TrimSpace(req.Genre),
		Year:      req.Year,
		Director:  strings.TrimSpace(req.Director),
		Cast:      strings.TrimSpace(req.Cast),
		AgeRating: req.AgeRating,
	})
	if err != nil {
		s.logger.Printf("create movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create movie")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", movie.ID))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

// handleTieredMovies serves the catalog filtered to a required MPAA tier,
// ranked by rating volume.
func (s *Server) handleTieredMovies(w http.ResponseWriter, r *http.Request) {
	required := strings.TrimSpace(r.URL.Query().Get("rating"))
	if required == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing rating parameter")
		return
	}

	movies, err := s.repo.Movies.Search(r.Context(), "", "", 100)
	if err != nil {
		s.logger.Printf("tiered movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}
	counts, err := s.repo.Ratings.CountByMovie(r.Context())
	if err != nil {
		s.logger.Printf("tiered movies counts error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	records := make([]mpaa.Record, 0, len(movies))
	for _, m := range movies {
		popularity := float64(counts[m.ID])
		records = append(records, mpaa.Record{
			Title:      m.Title,
			AgeRating:  m.AgeRating,
			Popularity: &popularity,
		})
	}

	filtered := mpaa.MoviesByRating(required, records)
	items := make([]tieredMovieResponse, 0, len(filtered))
	for _, rec := range filtered {
		item := tieredMovieResponse{Title: rec.Title}
		if rec.AgeRating != nil {
			item.AgeRating = *rec.AgeRating
		}
		if rec.Popularity != nil {
			item.Popularity = *rec.Popularity
		}
		items = append(items, item)
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")
	if movieID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing movie id")
		return
	}

	viewerID := strings.TrimSpace(r.Header.Get("X-Viewer-Id"))
	if viewerID == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must lie within [1,5]")
		return
	}

	if _, err := s.repo.Movies.GetByID(r.Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("fetch movie for rating failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}
	if _, err := s.repo.Viewers.GetByID(r.Context(), viewerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		s.logger.Printf("fetch viewer for rating failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	event, inserted, err := s.repo.Ratings.Upsert(r.Context(), repository.RatingUpsertParams{
		ViewerID: viewerID,
		MovieID:  movieID,
		Score:    req.Rating,
		Review:   req.Review,
	})
	if err != nil {
		s.logger.Printf("upsert rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, ratingResponse{
		MovieID:  event.MovieID,
		ViewerID: event.ViewerID,
		Rating:   event.Score,
	})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:        movie.ID,
		Title:     movie.Title,
		Genre:     movie.Genre,
		Year:      movie.Year,
		Director:  movie.Director,
		Cast:      movie.Cast,
		AgeRating: movie.AgeRating,
	}
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token == s.cfg.AuthToken
}
