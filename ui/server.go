package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"heartdash/domain/dataset"
	"heartdash/domain/payload"
	"heartdash/internal"
	"heartdash/ports"

	"github.com/gin-gonic/gin"
)

// Options wires the dashboard's dependencies
type Options struct {
	Predictor ports.Predictor
	Mode      payload.Mode
	// Endpoint is displayed on the prediction page
	Endpoint string

	// Dataset backs the analysis pages. When it is nil, DatasetErr explains why.
	Dataset    *dataset.Table
	DatasetErr error

	Logger  *internal.Logger
	GinMode string
}

// Server is the dashboard web server
type Server struct {
	router     *gin.Engine
	templates  *template.Template
	content    map[string]template.HTML
	predictor  ports.Predictor
	mode       payload.Mode
	endpoint   string
	dataset    *dataset.Table
	datasetErr error
	logger     *internal.Logger
	httpServer *http.Server
}

// NewServer parses the embedded templates and sets up the routes
func NewServer(opts Options) (*Server, error) {
	if opts.Predictor == nil {
		return nil, errors.New("ui: a predictor is required")
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.Mode == "" {
		opts.Mode = payload.ModeNullTolerant
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	tmpl, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}
	content, err := loadContent(embeddedFiles)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:     gin.New(),
		templates:  tmpl,
		content:    content,
		predictor:  opts.Predictor,
		mode:       opts.Mode,
		endpoint:   opts.Endpoint,
		dataset:    opts.Dataset,
		datasetErr: opts.DatasetErr,
		logger:     opts.Logger.WithComponent("UI"),
	}
	if s.dataset == nil && s.datasetErr == nil {
		s.datasetErr = errors.New("aucun jeu de données chargé")
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/pages/:slug", s.handlePage)
	s.router.POST("/pages/prediction", s.handlePredict)
	s.router.NoRoute(s.handleNotFound)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer.Addr = addr
	s.logger.Info("Starting dashboard on http://%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
