// Package server provides a public API for embedding the CMR granule link service.
package server

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robert-malhotra/cmr-granule-links/internal/api"
	"github.com/robert-malhotra/cmr-granule-links/internal/cmr"
	"github.com/robert-malhotra/cmr-granule-links/internal/config"
)

// Options configures the server.
type Options struct {
	// BaseURL is the public-facing URL for self-referential links.
	// Default: "http://localhost:8080"
	BaseURL string

	// CMRBaseURL is the CMR root URL; the search path is appended to it.
	// Default: "https://cmr.uat.earthdata.nasa.gov"
	CMRBaseURL string

	// PageSize is the number of granules requested from CMR.
	// Default: 2000
	PageSize int

	// Timeout bounds each CMR request. Zero means no client timeout.
	Timeout time.Duration

	// EncodeValues query-escapes search parameter values.
	EncodeValues bool

	// CollectionsDir is the path to collection alias JSON files.
	// Default: "" (no aliases)
	CollectionsDir string

	// Logger is the slog logger to use.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Server is a granule link server that can be embedded in another application.
type Server struct {
	router chi.Router
	client *cmr.Client
}

// New creates a new server with the given options.
func New(opts Options) (*Server, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}
	if opts.CMRBaseURL == "" {
		opts.CMRBaseURL = cmr.DefaultBaseURL
	}
	if opts.PageSize == 0 {
		opts.PageSize = cmr.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg := &config.Config{
		CMR: config.CMRConfig{
			BaseURL:      opts.CMRBaseURL,
			PageSize:     opts.PageSize,
			Timeout:      opts.Timeout,
			EncodeValues: opts.EncodeValues,
		},
		STAC: config.STACConfig{
			Version: "1.0.0",
			BaseURL: opts.BaseURL,
		},
		Collections: config.CollectionsConfig{
			Dir: opts.CollectionsDir,
		},
	}

	return NewFromConfig(cfg, opts.Logger), nil
}

// NewFromConfig creates a server from a loaded configuration. An unreadable
// collections directory is logged and the server runs without aliases.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	collections := config.NewCollectionRegistry()
	if cfg.Collections.Dir != "" {
		loaded, err := config.LoadCollections(cfg.Collections.Dir)
		if err != nil {
			logger.Warn("failed to load collections, using empty registry",
				"dir", cfg.Collections.Dir,
				"error", err,
			)
		} else {
			collections = loaded
		}
	}
	logger.Info("loaded collections", "count", collections.Count())

	client := NewCMRClient(cfg, logger)
	handlers := api.NewHandlers(cfg, client, collections, logger)

	return &Server{
		router: api.NewRouter(handlers, logger),
		client: client,
	}
}

// NewCMRClient builds the CMR client described by cfg.
func NewCMRClient(cfg *config.Config, logger *slog.Logger) *cmr.Client {
	return cmr.NewClient(cfg.CMR.BaseURL, cfg.CMR.PageSize, cfg.CMR.Timeout).
		WithEncodedValues(cfg.CMR.EncodeValues).
		WithLogger(logger)
}

// Router returns the chi.Router for mounting in another application.
func (s *Server) Router() chi.Router {
	return s.router
}

// Client returns the CMR client used by the server.
func (s *Server) Client() *cmr.Client {
	return s.client
}
