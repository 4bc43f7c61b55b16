// Package ui exposes the engine's collaborator surface as a thin JSON
// API. View rendering and navigation live elsewhere; this is only the
// narrow interface the interface layer consumes.
package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"merchhold/adapters/excel"
	"merchhold/app"
	"merchhold/internal"
	"merchhold/ports"
)

// Server is the HTTP server over the engine services.
type Server struct {
	records  *app.RecordService
	updater  *app.UpdaterService
	profiles *app.ProfileService
	reports  *app.ReportService
	ingester *excel.Ingester
	tables   ports.TableStore
	router   *chi.Mux
	log      *internal.Logger
}

// Deps bundles the services the server fronts.
type Deps struct {
	Records  *app.RecordService
	Updater  *app.UpdaterService
	Profiles *app.ProfileService
	Reports  *app.ReportService
	Ingester *excel.Ingester
	Tables   ports.TableStore
}

// NewServer creates the API server.
func NewServer(deps Deps) *Server {
	s := &Server{
		records:  deps.Records,
		updater:  deps.Updater,
		profiles: deps.Profiles,
		reports:  deps.Reports,
		ingester: deps.Ingester,
		tables:   deps.Tables,
		router:   chi.NewRouter(),
		log:      internal.DefaultLogger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Post("/tables", s.handleUploadTable)

		r.Get("/search", s.handleSearch)
		r.Post("/reconcile", s.handleReconcile)

		r.Post("/updates", s.handleUpdate)
		r.Post("/appends", s.handleAppend)

		r.Get("/report", s.handleReport)

		r.Get("/config/export", s.handleExportConfig)
		r.Post("/config/import", s.handleImportConfig)
		r.Post("/profiles/{profileID}/mappings", s.handleSaveMapping)
	})
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("[Server] listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
