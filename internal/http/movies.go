package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/WillJkdev/API-REST-Movies/internal/domain"
	"github.com/WillJkdev/API-REST-Movies/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

const (
	defaultRate          = 5
	defaultThumbnailSide = 320
)

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

type movieCreateRequest struct {
	Title           string   `json:"title" validate:"required"`
	Year            int      `json:"year" validate:"required,min=1900,max=2025"`
	Extract         string   `json:"extract" validate:"required"`
	Rate            *float64 `json:"rate" validate:"omitempty,min=0,max=10"`
	Thumbnail       string   `json:"thumbnail" validate:"required,url"`
	ThumbnailWidth  *int     `json:"thumbnail_width" validate:"omitempty,min=0,max=1000"`
	ThumbnailHeight *int     `json:"thumbnail_height" validate:"omitempty,min=0,max=1000"`
	Href            string   `json:"href"`
	Genres          []string `json:"genres" validate:"required,dive,genrevocab"`
	Cast            []string `json:"cast" validate:"required,dive,required"`
}

type movieUpdateRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1"`
	Year            *int     `json:"year" validate:"omitempty,min=1900,max=2025"`
	Extract         *string  `json:"extract"`
	Rate            *float64 `json:"rate" validate:"omitempty,min=0,max=10"`
	Thumbnail       *string  `json:"thumbnail" validate:"omitempty,url"`
	ThumbnailWidth  *int     `json:"thumbnail_width" validate:"omitempty,min=0,max=1000"`
	ThumbnailHeight *int     `json:"thumbnail_height" validate:"omitempty,min=0,max=1000"`
	Href            *string  `json:"href"`
	Genres          []string `json:"genres" validate:"omitempty,dive,genrevocab"`
	Cast            []string `json:"cast" validate:"omitempty,dive,required"`
}

type movieResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Year            int     `json:"year"`
	Genres          string  `json:"genres"`
	Cast            string  `json:"cast"`
	Extract         string  `json:"extract"`
	Rate            float64 `json:"rate"`
	Thumbnail       string  `json:"thumbnail"`
	ThumbnailWidth  int     `json:"thumbnail_width"`
	ThumbnailHeight int     `json:"thumbnail_height"`
	Href            string  `json:"href"`
}

type movieListResponse struct {
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalResults int64           `json:"totalResults"`
	TotalPages   int64           `json:"totalPages"`
	Data         []movieResponse `json:"data"`
}

type movieMutationResponse struct {
	movieResponse
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := buildMovieFilters(r.URL.Query())
	if err != nil {
		s.respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	movies, err := s.repo.Movies.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list movies error: %v", err)
		s.respondFailure(w, http.StatusInternalServerError, "failed to list movies")
		return
	}

	total, err := s.repo.Movies.Count(r.Context(), filters)
	if err != nil {
		s.logger.Printf("count movies error: %v", err)
		s.respondFailure(w, http.StatusInternalServerError, "failed to list movies")
		return
	}

	if total == 0 {
		s.respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"message": "no movies found matching the filters",
			"data":    []movieResponse{},
		})
		return
	}

	totalPages := (total + int64(filters.Limit) - 1) / int64(filters.Limit)
	if int64(filters.Page) > totalPages {
		s.respondFailure(w, http.StatusBadRequest,
			fmt.Sprintf("page number exceeds total pages (%d)", totalPages))
		return
	}

	data := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		data = append(data, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{
		Page:         filters.Page,
		Limit:        filters.Limit,
		TotalResults: total,
		TotalPages:   totalPages,
		Data:         data,
	})
}

// buildMovieFilters parses the list query string. Absent page/limit fall back
// to 1/30; present-but-invalid values are rejected rather than clamped.
func buildMovieFilters(query url.Values) (repository.MovieListFilters, error) {
	filters := repository.MovieListFilters{Page: 1, Limit: 30}

	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		filters.Genre = &val
	}
	if val := strings.TrimSpace(query.Get("cast")); val != "" {
		filters.Cast = &val
	}
	if val := strings.TrimSpace(query.Get("title")); val != "" {
		filters.Title = &val
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid year value")
		}
		filters.Year = &year
	}
	if val := strings.TrimSpace(query.Get("rate")); val != "" {
		rate, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid rate value")
		}
		filters.Rate = &rate
	}
	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil || page <= 0 {
			return filters, fmt.Errorf("invalid page parameter: must be a positive number")
		}
		filters.Page = page
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit < 1 || limit > 100 {
			return filters, fmt.Errorf("invalid limit parameter: must be between 1 and 100")
		}
		filters.Limit = limit
	}
	return filters, nil
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondMovieError(w, err, "failed to fetch movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg, ok := s.validateRequest(req); !ok {
		s.respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	params := repository.MovieCreateParams{
		Title:           strings.TrimSpace(req.Title),
		Year:            req.Year,
		Extract:         req.Extract,
		Rate:            defaultRate,
		Thumbnail:       req.Thumbnail,
		ThumbnailWidth:  defaultThumbnailSide,
		ThumbnailHeight: defaultThumbnailSide,
		Href:            req.Href,
		Genres:          req.Genres,
		Cast:            req.Cast,
	}
	if req.Rate != nil {
		params.Rate = *req.Rate
	}
	if req.ThumbnailWidth != nil {
		params.ThumbnailWidth = *req.ThumbnailWidth
	}
	if req.ThumbnailHeight != nil {
		params.ThumbnailHeight = *req.ThumbnailHeight
	}

	movie, err := s.repo.Movies.Create(r.Context(), params)
	if err != nil {
		var conflict *repository.ConflictError
		var relation *repository.RelationError
		switch {
		case errors.As(err, &conflict):
			s.respondJSON(w, http.StatusBadRequest, failureResponse{
				Error:   "movie already exists",
				Message: "a movie with this title and year is already in the catalog",
				ID:      conflict.ExistingID,
			})
		case errors.As(err, &relation):
			s.respondFailure(w, http.StatusBadRequest, relation.Error())
		default:
			s.logger.Printf("create movie error: %v", err)
			s.respondFailure(w, http.StatusInternalServerError, "could not create movie")
		}
		return
	}

	w.Header().Set("Location", "/movies/"+movie.ID)
	s.respondJSON(w, http.StatusCreated, movieMutationResponse{
		movieResponse: toMovieResponse(movie),
		Success:       true,
		Message:       "movie created successfully",
	})
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req movieUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg, ok := s.validateRequest(req); !ok {
		s.respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	movie, err := s.repo.Movies.Update(r.Context(), id, repository.MovieUpdateParams{
		Title:           req.Title,
		Year:            req.Year,
		Extract:         req.Extract,
		Rate:            req.Rate,
		Thumbnail:       req.Thumbnail,
		ThumbnailWidth:  req.ThumbnailWidth,
		ThumbnailHeight: req.ThumbnailHeight,
		Href:            req.Href,
		Genres:          req.Genres,
		Cast:            req.Cast,
	})
	if err != nil {
		var relation *repository.RelationError
		var conflict *repository.ConflictError
		switch {
		case errors.As(err, &relation):
			s.respondFailure(w, http.StatusBadRequest, relation.Error())
		case errors.As(err, &conflict):
			s.respondFailure(w, http.StatusBadRequest, "a movie with this title and year already exists")
		default:
			s.respondMovieError(w, err, "could not update movie")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, movieMutationResponse{
		movieResponse: toMovieResponse(movie),
		Success:       true,
		Message:       "movie updated successfully",
	})
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.repo.Movies.Delete(r.Context(), id); err != nil {
		s.respondMovieError(w, err, "could not delete movie")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "movie deleted along with its relations",
	})
}

// respondMovieError maps the shared movie error cases; callers handle their
// operation-specific ones first.
func (s *Server) respondMovieError(w http.ResponseWriter, err error, genericMsg string) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		s.respondFailure(w, http.StatusBadRequest, "the provided movie id is not valid")
	case errors.Is(err, repository.ErrNotFound):
		s.respondFailure(w, http.StatusNotFound, "no movie found with the provided id")
	default:
		s.logger.Printf("%s: %v", genericMsg, err)
		s.respondFailure(w, http.StatusInternalServerError, genericMsg)
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:              movie.ID,
		Title:           movie.Title,
		Year:            movie.Year,
		Genres:          movie.Genres,
		Cast:            movie.Cast,
		Extract:         movie.Extract,
		Rate:            movie.Rate,
		Thumbnail:       movie.Thumbnail,
		ThumbnailWidth:  movie.ThumbnailWidth,
		ThumbnailHeight: movie.ThumbnailHeight,
		Href:            movie.Href,
	}
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

func (s *Server) respondFailure(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, failureResponse{Error: message})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondFailure(w, http.StatusBadRequest, "malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondFailure(w, http.StatusBadRequest, fmt.Sprintf("invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondFailure(w, http.StatusBadRequest, "request body cannot be empty")
	default:
		s.respondFailure(w, http.StatusBadRequest, "unable to parse request body")
	}
}
