// internal/directory/handler.go
package directory

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/blake2b"

	"projectmembers/internal/logger"
)

const maxBodySize = 1 << 16

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Router returns the chi router serving the page and the JSON API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestSize(maxBodySize))
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", h.HandlePage)
	r.Get("/healthz", h.health)

	r.Route("/api/members", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Post("/refresh", h.HandleRefresh)
	})
	return r
}

// HandlePage renders the member directory page for the q, role and page
// query parameters.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	view := NewListView(h.service.ListMembers)
	view.Apply(CriteriaFromRequest(r))
	view.LoadSync(r.Context())

	var buf bytes.Buffer
	if err := Render(&buf, view, RenderOptions{Action: "/", AddAction: "/api/members"}); err != nil {
		logger.Error("render page: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if view.State() == StateError {
		w.WriteHeader(http.StatusBadGateway)
	}
	_, _ = w.Write(buf.Bytes())
}

type listResponse struct {
	Items      []Member `json:"items"`
	Search     string   `json:"search"`
	Role       string   `json:"role"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	HasPrev    bool     `json:"has_prev"`
	HasNext    bool     `json:"has_next"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Query(r.Context(), CriteriaFromRequest(r))
	if err != nil {
		writeFetchError(w, err)
		return
	}

	body, err := json.Marshal(listResponse{
		Items:      page.Items,
		Search:     page.Criteria.Search,
		Role:       page.Criteria.Role,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasPrev:    page.HasPrev(),
		HasNext:    page.HasNext(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	etag := computeETag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// HandleAdd backs the Add Member button, which has no behaviour yet.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "adding members is not supported", http.StatusNotImplemented)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Refresh(r.Context())
	if errors.Is(err, ErrRateLimited) {
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	}
	if err != nil {
		writeFetchError(w, err)
		return
	}

	logger.Info("directory: refreshed %d members", len(members))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"total": len(members)})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// CriteriaFromRequest reads q, role and page. A missing or malformed page is 1.
// An unknown role is kept as given and matches no members.
func CriteriaFromRequest(r *http.Request) Criteria {
	q := r.URL.Query()
	c := Criteria{
		Search: q.Get("q"),
		Role:   q.Get("role"),
		Page:   1,
	}
	if c.Role != "" && !ValidRole(c.Role) {
		logger.Debug("directory: unknown role filter %q", c.Role)
	}
	if ps := q.Get("page"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			c.Page = v
		}
	}
	return c
}

func writeFetchError(w http.ResponseWriter, err error) {
	logger.Warn("directory: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": FailureMessage})
}

func computeETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
