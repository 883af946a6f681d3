package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/metrics"
	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
	"github.com/cloud-ru/mcp-finance-planner/internal/report"
	"github.com/cloud-ru/mcp-finance-planner/internal/repository"
	"github.com/cloud-ru/mcp-finance-planner/internal/simulation"
	"github.com/cloud-ru/mcp-finance-planner/internal/tools"
)

const maxBodyBytes = 1 << 20

// Server HTTP транспорт инструментов и отчетов
type Server struct {
	tools    tools.Registry
	svc      *simulation.Service
	reports  *report.Generator
	template *prolabore.Template
	limiter  *RateLimiter
	logger   *zap.Logger
}

// New создает сервер; limiter может быть nil, тогда лимит не применяется
func New(registry tools.Registry, svc *simulation.Service, reports *report.Generator,
	template *prolabore.Template, limiter *RateLimiter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		tools:    registry,
		svc:      svc,
		reports:  reports,
		template: template,
		limiter:  limiter,
		logger:   logger,
	}
}

// Routes собирает маршруты
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Get("/tools", s.listTools)
		r.Post("/tools/{name}", s.callTool)
		r.Get("/reports/simulations/{id}", s.simulationReport)
		r.Get("/reports/comparison", s.comparisonReport)
		r.Post("/reports/prolabore", s.proLaboreReport)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"tools": s.tools.Names()})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	handler, ok := s.tools[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown tool %q", name))
		return
	}

	params := map[string]interface{}{}
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}

	result, err := handler(r.Context(), params)
	if err != nil {
		s.writeFailure(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

func (s *Server) simulationReport(w http.ResponseWriter, r *http.Request) {
	sim, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, "simulation_report", err)
		return
	}
	data, err := s.reports.SimulationPDF(sim)
	s.writePDF(w, "simulation", "simulacao-"+sim.ID+".pdf", data, err)
}

func (s *Server) comparisonReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("a") == "" || q.Get("b") == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}
	cmp, err := s.svc.Compare(r.Context(), q.Get("a"), q.Get("b"))
	if err != nil {
		s.writeFailure(w, "comparison_report", err)
		return
	}
	data, err := s.reports.ComparisonPDF(cmp)
	s.writePDF(w, "comparison", "comparacao.pdf", data, err)
}

type proLaboreReportRequest struct {
	Values map[string]string                  `json:"values"`
	Input  map[prolabore.FieldID]json.Number `json:"input"`
}

func (s *Server) proLaboreReport(w http.ResponseWriter, r *http.Request) {
	var req proLaboreReportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	in := make(prolabore.Input, len(req.Input))
	for id, n := range req.Input {
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("input %s: %v", id, err))
			return
		}
		in[id] = d
	}
	result, err := prolabore.Calculate(in)
	if err != nil {
		s.writeFailure(w, "prolabore_report", err)
		return
	}
	data, err := s.reports.ProLaborePDF(s.template, req.Values, result)
	s.writePDF(w, "prolabore", "pro-labore.pdf", data, err)
}

func (s *Server) writePDF(w http.ResponseWriter, kind, filename string, data []byte, err error) {
	if err != nil {
		metrics.ReportsGenerated.WithLabelValues(kind, "error").Inc()
		s.writeFailure(w, kind+"_report", err)
		return
	}
	metrics.ReportsGenerated.WithLabelValues(kind, "success").Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeFailure(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// statusFor сопоставляет вид ошибки с HTTP кодом
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrInvalidParams),
		calculations.IsValidationError(err),
		errors.Is(err, prolabore.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, simulation.ErrEarlyPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
