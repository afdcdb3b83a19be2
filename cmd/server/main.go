package main

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Simplici0/glassquote/internal/catalog"
	"github.com/Simplici0/glassquote/internal/config"
	"github.com/Simplici0/glassquote/internal/db"
	"github.com/Simplici0/glassquote/internal/docstore"
	"github.com/Simplici0/glassquote/internal/migrations"
	"github.com/Simplici0/glassquote/internal/obs"
	"github.com/Simplici0/glassquote/internal/pricing"
	"github.com/Simplici0/glassquote/internal/proposal"
	"github.com/Simplici0/glassquote/internal/render"
	"github.com/Simplici0/glassquote/internal/seed"
	"github.com/Simplici0/glassquote/web"
)

type server struct {
	cfg       *config.Config
	logger    zerolog.Logger
	db        *sql.DB
	catalog   *catalog.Loader
	engine    *pricing.Engine
	proposals *proposal.Store
	docs      *docstore.Local
	metrics   *obs.Metrics
	validate  *validator.Validate
	// auth is nil when no manager login is configured.
	auth *authService
	now  func() time.Time
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := obs.NewLogger("json", "info")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	if cfg.AutoMigrate {
		if err := migrations.Up(database); err != nil {
			logger.Fatal().Err(err).Msg("run database migrations")
		}
	}

	stats, err := seed.Run(database, seed.Config{
		DataDir:         cfg.DataDir,
		ManagerLogin:    cfg.ManagerLogin,
		ManagerPassword: cfg.ManagerPassword,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seed")
	}
	logger.Info().Int("inserts", stats.Inserts).Int("files_written", stats.FilesWritten).Msg("seed_done")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := newServer(cfg, logger, database, obs.NewMetrics(registry))
	handler := srv.routes(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("env", cfg.AppEnv).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newServer(cfg *config.Config, logger zerolog.Logger, database *sql.DB, metrics *obs.Metrics) *server {
	s := &server{
		cfg:       cfg,
		logger:    logger,
		db:        database,
		catalog:   catalog.NewLoader(cfg.DataDir),
		engine:    pricing.NewEngine(cfg.Limits(), logger),
		proposals: proposal.NewStore(database),
		docs:      docstore.NewLocal(cfg.PDFDir),
		metrics:   metrics,
		validate:  newValidator(),
		now:       time.Now,
	}
	if cfg.AuthEnabled() {
		s.auth = newAuthService(database, cfg.SessionSecret)
	}
	return s
}

func (s *server) routes(metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger{Logger: s.logger}.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/manager", http.StatusFound)
	})
	r.Get("/healthz", s.handleHealthz)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", s.handleAPICalculate)
		r.Post("/pdf", s.handleAPIPDF)
	})

	if s.auth != nil {
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLoginSubmit)
		r.Post("/logout", s.handleLogout)
	}

	r.Route("/manager", func(r chi.Router) {
		r.Use(s.requireManager)
		r.Get("/", s.handleManagerForm)
		r.Post("/preview", s.handleManagerPreview)
		r.Post("/pdf", s.handleManagerPDF)
		r.Get("/pdf/download/{filename}", s.handleDownload)
		r.Get("/history", s.handleHistoryList)
		r.Get("/history/{id}", s.handleHistoryView)
		r.Get("/history/{id}/xlsx", s.handleHistoryXLSX)
		r.Get("/history/download/{filename}", s.handleDownload)
	})

	return r
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("healthz_db_ping")
		writeError(w, http.StatusServiceUnavailable, "unavailable", "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var templateFuncs = template.FuncMap{
	"money":            render.FormatMoney,
	"formatSize":       render.FormatSize,
	"itemTitle":        render.ItemTitle,
	"servicesText":     render.ServicesText,
	"humanizeDelivery": pricing.HumanizeDeliveryLabel,
	"formatNumber":     pricing.FormatNumber,
	"inc":              func(i int) int { return i + 1 },
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	templates, err := web.Page(page, templateFuncs)
	if err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("parse_template")
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("render_template")
	}
}
