package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/cart-store/internal/catalog/repository"
	"github.com/fjod/go_cart/cart-store/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server exposes the storefront's catalog REST API.
type Server struct {
	repo repository.RepoInterface
	log  *logger.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewRouter builds the catalog HTTP handler:
//
//	GET /health
//	GET /products
//	GET /products/{id}
//	GET /stock/{id}
func NewRouter(repo repository.RepoInterface, log *logger.Logger) http.Handler {
	s := &Server{repo: repo, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/products", s.listProducts)
	r.Get("/products/{id}", s.getProduct)
	r.Get("/stock/{id}", s.getStock)

	return otelhttp.NewHandler(r, "catalog")
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.repo.GetAllProducts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list products")
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch products")
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}

	product, err := s.repo.GetProduct(r.Context(), id)
	if err != nil {
		s.handleRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}

	stock, err := s.repo.GetStock(r.Context(), id)
	if err != nil {
		s.handleRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stock)
}

func (s *Server) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *Server) handleRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	s.log.Error().Err(err).Msg("catalog repository error")
	s.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.WithContext(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("catalog request")
	})
}
