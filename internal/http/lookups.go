package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/WillJkdev/API-REST-Movies/internal/domain"
	"github.com/WillJkdev/API-REST-Movies/internal/repository"
)

type lookupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type lookupResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type lookupMutationResponse struct {
	lookupResponse
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// registerLookupRoutes mounts the shared CRUD surface for /genres and /cast.
func (s *Server) registerLookupRoutes(r chi.Router, repo func() *repository.LookupRepository) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		s.handleListLookups(w, req, repo())
	})
	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		s.handleCreateLookup(w, req, repo())
	})
	r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
		s.handleGetLookup(w, req, repo())
	})
	r.Patch("/{id}", func(w http.ResponseWriter, req *http.Request) {
		s.handleUpdateLookup(w, req, repo())
	})
	r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
		s.handleDeleteLookup(w, req, repo())
	})
}

func (s *Server) handleListLookups(w http.ResponseWriter, r *http.Request, repo *repository.LookupRepository) {
	items, err := repo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		s.logger.Printf("list lookups error: %v", err)
		s.respondFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	data := make([]lookupResponse, 0, len(items))
	for _, item := range items {
		data = append(data, toLookupResponse(item))
	}
	s.respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleGetLookup(w http.ResponseWriter, r *http.Request, repo *repository.LookupRepository) {
	id, err := lookupIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusBadRequest, "the provided id is not valid")
		return
	}

	item, err := repo.GetByID(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, "failed to fetch entry")
		return
	}
	s.respondJSON(w, http.StatusOK, toLookupResponse(item))
}

func (s *Server) handleCreateLookup(w http.ResponseWriter, r *http.Request, repo *repository.LookupRepository) {
	var req lookupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg, ok := s.validateRequest(req); !ok {
		s.respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	item, err := repo.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			s.respondJSON(w, http.StatusBadRequest, failureResponse{
				Error: "entry already exists",
				ID:    conflict.ExistingID,
			})
			return
		}
		s.logger.Printf("create lookup error: %v", err)
		s.respondFailure(w, http.StatusInternalServerError, "could not create entry")
		return
	}

	s.respondJSON(w, http.StatusCreated, lookupMutationResponse{
		lookupResponse: toLookupResponse(item),
		Success:        true,
		Message:        "entry created successfully",
	})
}

func (s *Server) handleUpdateLookup(w http.ResponseWriter, r *http.Request, repo *repository.LookupRepository) {
	id, err := lookupIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusBadRequest, "the provided id is not valid")
		return
	}

	var req lookupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg, ok := s.validateRequest(req); !ok {
		s.respondFailure(w, http.StatusBadRequest, msg)
		return
	}

	item, err := repo.Update(r.Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			s.respondFailure(w, http.StatusBadRequest, "an entry with this name already exists")
			return
		}
		s.respondLookupError(w, err, "could not update entry")
		return
	}

	s.respondJSON(w, http.StatusOK, lookupMutationResponse{
		lookupResponse: toLookupResponse(item),
		Success:        true,
		Message:        "entry updated successfully",
	})
}

func (s *Server) handleDeleteLookup(w http.ResponseWriter, r *http.Request, repo *repository.LookupRepository) {
	id, err := lookupIDParam(r)
	if err != nil {
		s.respondFailure(w, http.StatusBadRequest, "the provided id is not valid")
		return
	}

	if err := repo.Delete(r.Context(), id); err != nil {
		s.respondLookupError(w, err, "could not delete entry")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "entry deleted successfully",
	})
}

func (s *Server) respondLookupError(w http.ResponseWriter, err error, genericMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		s.respondFailure(w, http.StatusNotFound, "no entry found with the provided id")
		return
	}
	s.logger.Printf("%s: %v", genericMsg, err)
	s.respondFailure(w, http.StatusInternalServerError, genericMsg)
}

func toLookupResponse(item domain.Lookup) lookupResponse {
	return lookupResponse{ID: item.ID, Name: item.Name}
}

func lookupIDParam(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return int32(id), nil
}
