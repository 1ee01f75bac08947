package devserver

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-app-core/resources"
)

// ListResourcesHandler returns one page of resources
func (s *Server) ListResourcesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		data, total := s.resources.list(page, pageSize)
		writeJSON(w, http.StatusOK, resources.ListResponse{Data: data, Total: total})
	}
}

// GetResourceHandler returns a single resource
func (s *Server) GetResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, err := s.resources.get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "resource not found")
			return
		}
		writeJSON(w, http.StatusOK, resource)
	}
}

// CreateResourceHandler stores a new resource
func (s *Server) CreateResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resources.CreateRequest
		if err := decodeJSON(r, &req); err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "name is required")
			return
		}
		writeJSON(w, http.StatusCreated, s.resources.create(req.Name, req.Data))
	}
}

// UpdateResourceHandler replaces a resource's mutable fields
func (s *Server) UpdateResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resources.CreateRequest
		if err := decodeJSON(r, &req); err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "name is required")
			return
		}

		resource, err := s.resources.update(r.PathValue("id"), req.Name, req.Data)
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "resource not found")
			return
		}
		writeJSON(w, http.StatusOK, resource)
	}
}

// DeleteResourceHandler removes a resource
func (s *Server) DeleteResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.resources.delete(r.PathValue("id")); err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "resource not found")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
