package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/inventory"
	"github.com/MrEthical07/goNexus/middleware"
	"github.com/MrEthical07/goNexus/permission"
)

const maxProductBody = 16 << 10

type productList struct {
	Items      []inventory.Product  `json:"items"`
	Categories []inventory.Category `json:"categories"`
	CanEdit    bool                 `json:"can_edit"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		page = n
	}

	res, err := s.catalog.List(inventory.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Page:     page,
	})
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "unknown_category", err.Error())
		return
	}

	who, _ := middleware.IdentityFromContext(r.Context())
	respond.List(w, r, productList{
		Items:      res.Items,
		Categories: inventory.Categories(),
		CanEdit:    s.engine.Allows(&who, permission.InventoryWrite),
	}, &respond.Pagination{
		Page:       res.Page,
		PerPage:    res.PerPage,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.productError(w, r, err)
		return
	}
	respond.OK(w, r, p)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var d inventory.Draft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProductBody)).Decode(&d); err != nil {
		s.productError(w, r, err)
		return
	}

	p, err := s.catalog.Create(d)
	if err != nil {
		s.productError(w, r, err)
		return
	}
	s.recordProduct(r, goNexus.AuditEventProductCreated, p.ID)
	respond.Created(w, r, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch inventory.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProductBody)).Decode(&patch); err != nil {
		s.productError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	p, err := s.catalog.Update(id, patch)
	if err != nil {
		s.productError(w, r, err)
		return
	}
	s.recordProduct(r, goNexus.AuditEventProductUpdated, id)
	respond.OK(w, r, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Delete(id); err != nil {
		s.productError(w, r, err)
		return
	}
	s.recordProduct(r, goNexus.AuditEventProductDeleted, id)
	respond.OK(w, r, map[string]string{"deleted": id})
}

func (s *Server) recordProduct(r *http.Request, event, id string) {
	s.engine.RecordActivity(r.Context(), goNexus.AuditRecord{
		EventType: event,
		Route:     r.URL.Path,
		Success:   true,
		Metadata:  map[string]string{"product_id": id},
	})
}

func (s *Server) productError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, inventory.ErrInvalidProduct), errors.Is(err, inventory.ErrUnknownCategory):
		respond.Error(w, r, http.StatusBadRequest, "invalid_product", err.Error())
	default:
		respond.Error(w, r, http.StatusBadRequest, "invalid_request", "malformed JSON body")
	}
}
