package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
	healthuc "github.com/kuberocketai/contenthub/internal/usecase/health"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
	"github.com/kuberocketai/contenthub/internal/version"

	logpkg "github.com/kuberocketai/contenthub/internal/logger"
)

const maxBodyBytes = 64 << 10

// categoryParamPrefix prefixes the per-tab category query parameters of GET /tabs.
const categoryParamPrefix = "category."

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves processed content hub tabs over HTTP.
type Server struct {
	hub           *hubuc.Service
	sessions      *hubuc.SessionStore
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	hub *hubuc.Service,
	sessions *hubuc.SessionStore,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		hub:      hub,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTabNotFound, http.StatusNotFound, CodeTabNotFound),
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, CodeItemNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotLoaded, http.StatusServiceUnavailable, CodeContentNotLoaded),
		sentinelHandler(domain.ErrInvalidContent, http.StatusBadGateway, CodeContentInvalid),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusServiceUnavailable, CodeContentUnavailable),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tabs", s.ListTabs)
		r.Post("/refresh", s.RefreshAll)
		r.Route("/tabs/{tab}", func(r chi.Router) {
			r.Get("/", s.GetTab)
			r.Get("/items/{id}", s.GetItem)
			r.Get("/validation", s.ValidateTab)
			r.Post("/refresh", s.RefreshTab)
		})
		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.DeleteSession)
			r.Put("/query", s.SetSessionQuery)
			r.Put("/category", s.SetSessionCategory)
			r.Post("/clear", s.ClearSession)
			r.Get("/tabs", s.SessionTabs)
		})
	})
}

// ListTabs handles GET /api/v1/tabs.
func (s *Server) ListTabs(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter q")
		return
	}

	selected := make(map[content.Type]string)
	for key, vals := range r.URL.Query() {
		name, ok := strings.CutPrefix(key, categoryParamPrefix)
		if !ok || len(vals) == 0 {
			continue
		}
		t, err := content.ParseType(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
			return
		}
		req, err := request.New(q, vals[0], 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
		selected[t] = req.Category()
	}
	if _, err := request.New(q, "", 0); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.tabsResponse(s.hub.Process(r.Context(), q, selected), q, nil))
}

// GetTab handles GET /api/v1/tabs/{tab}.
func (s *Server) GetTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.tabParam(w, r)
	if !ok {
		return
	}

	var (
		q, cat string
		limit  int
	)
	params := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", params, &q); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter q")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", params, &cat); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter category")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter limit")
		return
	}

	req, err := request.New(q, cat, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	pt, err := s.hub.ProcessTab(r.Context(), tab, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	cfg, _ := s.hub.Tab(tab)
	writeJSON(w, http.StatusOK, tabToResponse(pt, cfg))
}

// GetItem handles GET /api/v1/tabs/{tab}/items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.tabParam(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	item, err := s.hub.Item(tab, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Raw())
}

// ValidateTab handles GET /api/v1/tabs/{tab}/validation.
func (s *Server) ValidateTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.tabParam(w, r)
	if !ok {
		return
	}

	report, err := s.hub.Validate(tab)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(tab, report))
}

// RefreshTab handles POST /api/v1/tabs/{tab}/refresh.
// Load failures are reported in the provider state unless strict=true is set.
func (s *Server) RefreshTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.tabParam(w, r)
	if !ok {
		return
	}
	strict, ok := strictParam(w, r)
	if !ok {
		return
	}

	err := s.hub.Refresh(r.Context(), tab)
	if err != nil && (strict || errors.Is(err, domain.ErrTabNotFound)) {
		s.handleDomainError(w, r, err)
		return
	}
	if err != nil {
		logpkg.FromContext(r.Context(), s.logger).Warn("refresh failed", zap.String("tab", string(tab)), zap.Error(err))
	}

	t, _ := s.hub.Tab(tab)
	writeJSON(w, http.StatusOK, RefreshResponse{
		Providers: []ProviderStateResponse{providerStateToResponse(t.ID, t.Provider.State())},
	})
}

// RefreshAll handles POST /api/v1/refresh.
func (s *Server) RefreshAll(w http.ResponseWriter, r *http.Request) {
	strict, ok := strictParam(w, r)
	if !ok {
		return
	}

	if err := s.hub.RefreshAll(r.Context()); err != nil {
		if strict {
			s.handleDomainError(w, r, err)
			return
		}
		logpkg.FromContext(r.Context(), s.logger).Warn("refresh failed", zap.Error(err))
	}

	tabs := s.hub.Tabs()
	resp := RefreshResponse{Providers: make([]ProviderStateResponse, len(tabs))}
	for i, t := range tabs {
		resp.Providers[i] = providerStateToResponse(t.ID, t.Provider.State())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSessionQuery handles PUT /api/v1/sessions/{id}/query.
func (s *Server) SetSessionQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	var body SetQueryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if _, err := request.New(body.Query, "", 0); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	sess.SetQuery(body.Query)
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// SetSessionCategory handles PUT /api/v1/sessions/{id}/category.
func (s *Server) SetSessionCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	var body SetCategoryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	tab, err := content.ParseType(body.Tab)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	if _, err := s.hub.Tab(tab); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	req, err := request.New("", body.Category, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	sess.SetCategory(tab, req.Category())
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// ClearSession handles POST /api/v1/sessions/{id}/clear.
func (s *Server) ClearSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	sess.Clear()
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// SessionTabs handles GET /api/v1/sessions/{id}/tabs.
func (s *Server) SessionTabs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	resp := sessionToResponse(sess)
	writeJSON(w, http.StatusOK, s.tabsResponse(s.hub.ProcessSession(r.Context(), sess), resp.Query.Settled, &resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report, version.Version))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) tabsResponse(tabs []hubuc.ProcessedTab, query string, sess *SessionResponse) TabsResponse {
	resp := TabsResponse{Query: query, Session: sess, Tabs: make([]TabResponse, len(tabs))}
	for i, pt := range tabs {
		cfg, _ := s.hub.Tab(pt.ID)
		resp.Tabs[i] = tabToResponse(pt, cfg)
	}
	return resp
}

func (s *Server) tabParam(w http.ResponseWriter, r *http.Request) (content.Type, bool) {
	raw, ok := pathParam(w, r, "tab")
	if !ok {
		return "", false
	}
	t, err := content.ParseType(raw)
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %s", domain.ErrTabNotFound, err.Error()))
		return "", false
	}
	return t, true
}

func (s *Server) sessionParam(w http.ResponseWriter, r *http.Request) (*hubuc.Session, bool) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid path parameter "+name)
		return "", false
	}
	return v, true
}

func strictParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var strict bool
	if err := runtime.BindQueryParameter("form", true, false, "strict", r.URL.Query(), &strict); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter strict")
		return false, false
	}
	return strict, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTabNotFound,
		domain.ErrItemNotFound,
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidRequest,
		domain.ErrNotLoaded,
		domain.ErrInvalidContent,
		domain.ErrSourceUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
