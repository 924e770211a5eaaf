package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/fabricalc/internal/configstore"
	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = []string{"calculator.html", "config.html"}

// Server renders the two screens of the application: the price calculator and
// the cost model configuration.
type Server struct {
	store     *configstore.Service
	log       *logging.Logger
	templates map[string]*template.Template

	noticeMu sync.Mutex
	notice   string
}

// New parses the templates and returns a server. notice, when non-empty, is
// shown once as a warning banner (used for a configuration that failed to load).
func New(svc *configstore.Service, logger *logging.Logger, notice string) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Server{store: svc, log: logger, templates: templates, notice: notice}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleCalculatorForm)
	r.Post("/quote", s.handleQuote)
	r.Get("/config", s.handleConfigForm)
	r.Post("/config", s.handleConfigSave)
	r.Post("/config/materials", s.handleMaterialCreate)
	r.Post("/config/reset", s.handleConfigReset)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// NewHTTPServer wraps the routes in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", logging.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}

func (s *Server) takeNotice() string {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	notice := s.notice
	s.notice = ""
	return notice
}

func (s *Server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		http.Error(w, "unknown template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error("render template", err, logging.Fields{"page": page})
	}
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, key, message string) {
	http.Redirect(w, r, path+"?"+url.Values{key: {message}}.Encode(), http.StatusSeeOther)
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, costmodel.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, costmodel.ErrLookup):
		return http.StatusNotFound
	case errors.Is(err, costmodel.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage turns an error into the text shown to the user.
func userMessage(err error) string {
	var vErr *costmodel.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Error en los datos: " + vErr.Error()
	case errors.Is(err, costmodel.ErrLookup):
		return "Material no encontrado en la configuración"
	case errors.Is(err, costmodel.ErrDivisionByZero):
		return "La vida útil de la impresora no puede ser 0"
	case errors.Is(err, store.ErrIO):
		return "Error al guardar la configuración: " + err.Error()
	default:
		return "Error inesperado: " + err.Error()
	}
}
