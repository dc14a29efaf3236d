package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/internal/export"
	"github.com/MalithGihan/protocol-extract/internal/extraction"
	"github.com/MalithGihan/protocol-extract/internal/logging"
	"github.com/MalithGihan/protocol-extract/internal/validate"
)

type Server struct {
	svc       *extraction.Service
	log       logrus.FieldLogger
	maxUpload int64
}

func New(svc *extraction.Service, log logrus.FieldLogger, maxUpload int64) *Server {
	return &Server{svc: svc, log: logging.For(log, logging.App), maxUpload: maxUpload}
}

// Routes builds the HTTP API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "API de extração de PDF está funcionando!"})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"protocol-extract"}`))
	})
	r.Get("/providers", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"providers": s.svc.Providers()})
	})

	r.Post("/extract", s.handleExtract)
	r.Route("/results/{id}", func(r chi.Router) {
		r.Get("/", s.handleResults)
		r.Get("/csv", s.handleCSV)
		r.Get("/xlsx", s.handleXLSX)
	})
	r.Get("/extractions/{id}", s.handleExtraction)
	return r
}

type extractResp struct {
	ExtractionID string `json:"extraction_id"`
	Message      string `json:"message"`
	Count        int    `json:"count"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: missing \"file\" field", common.ErrInvalidInput))
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: reading upload: %v", common.ErrInvalidInput, err))
		return
	}

	ex, err := s.svc.Submit(r.Context(), extraction.Submission{
		Filename: fh.Filename,
		Content:  content,
		Provider: r.FormValue("provider"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResp{
		ExtractionID: ex.ID,
		Message:      "Extração concluída com sucesso",
		Count:        len(ex.Records),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := validate.Records(records); err != nil {
		s.writeError(w, fmt.Errorf("results failed schema validation: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := s.svc.Results(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := export.CSV(records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, id))
	io.WriteString(w, out)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := s.svc.Results(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, err := export.XLSX(records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, id))
	w.Write(b)
}

type extractionResp struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Filename  string    `json:"filename"`
	Pages     int       `json:"pages"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleExtraction(w http.ResponseWriter, r *http.Request) {
	ex, err := s.svc.Extraction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extractionResp{
		ID:        ex.ID,
		Provider:  ex.Provider,
		Filename:  ex.Filename,
		Pages:     ex.Pages,
		Count:     len(ex.Records),
		CreatedAt: ex.CreatedAt,
	})
}

type errorResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(code string) int {
	switch code {
	case common.CodeInvalidInput, common.CodeUnsupportedFormat:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	status := statusFor(code)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= 500 {
		s.log.WithError(err).Error("request failed")
	}
	msg := err.Error()
	var ae *common.AppError
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	writeJSON(w, status, errorResp{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"request_id": middleware.GetReqID(r.Context()),
			"elapsed_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}
