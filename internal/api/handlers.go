package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/robert-malhotra/cmr-granule-links/internal/cmr"
	"github.com/robert-malhotra/cmr-granule-links/internal/config"
	"github.com/robert-malhotra/cmr-granule-links/internal/stac"
	"github.com/robert-malhotra/cmr-granule-links/internal/translate"
)

// GranuleSearcher runs a CMR granule search and filters the resulting links.
// *cmr.Client implements it.
type GranuleSearcher interface {
	GetURLs(ctx context.Context, params cmr.SearchParams) ([]string, error)
	GetGranuleLinks(ctx context.Context, params cmr.SearchParams) ([]cmr.GranuleLinks, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	cfg         *config.Config
	searcher    GranuleSearcher
	collections *config.CollectionRegistry
	logger      *slog.Logger
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(
	cfg *config.Config,
	searcher GranuleSearcher,
	collections *config.CollectionRegistry,
	logger *slog.Logger,
) *Handlers {
	if collections == nil {
		collections = config.NewCollectionRegistry()
	}
	return &Handlers{
		cfg:         cfg,
		searcher:    searcher,
		collections: collections,
		logger:      logger,
	}
}

// URLsResponse is the body of the URL list endpoints.
type URLsResponse struct {
	URLs  []string `json:"urls"`
	Count int      `json:"count"`
}

// CollectionsResponse lists the configured collection aliases.
type CollectionsResponse struct {
	Collections []*config.CollectionAlias `json:"collections"`
	Count       int                       `json:"count"`
}

// Health reports service liveness.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Collections lists configured collection aliases.
// GET /collections
func (h *Handlers) Collections(w http.ResponseWriter, r *http.Request) {
	all := h.collections.All()
	WriteJSON(w, http.StatusOK, CollectionsResponse{Collections: all, Count: len(all)})
}

// URLs returns the filtered download URLs for a granule search.
// GET /urls
// GET /collections/{collectionId}/urls
func (h *Handlers) URLs(w http.ResponseWriter, r *http.Request) {
	params, ok := h.searchParams(w, r)
	if !ok {
		return
	}

	urls, err := h.searcher.GetURLs(r.Context(), params)
	if err != nil {
		h.writeSearchError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, URLsResponse{URLs: urls, Count: len(urls)})
}

// Items returns the filtered links as a STAC ItemCollection, one Item per granule.
// GET /items
// GET /collections/{collectionId}/items
func (h *Handlers) Items(w http.ResponseWriter, r *http.Request) {
	params, ok := h.searchParams(w, r)
	if !ok {
		return
	}

	granules, err := h.searcher.GetGranuleLinks(r.Context(), params)
	if err != nil {
		h.writeSearchError(w, r, err)
		return
	}

	baseURL := h.cfg.STAC.BaseURL
	items := stac.ItemsFromGranules(granules, params.CollectionID, baseURL, h.cfg.STAC.Version)

	ic := stac.NewItemCollection(items)
	ic.AddLink("root", baseURL+"/", "application/json")
	ic.AddLink("self", baseURL+r.URL.Path, "application/geo+json")

	WriteGeoJSON(w, http.StatusOK, ic)
}

// searchParams reads the search parameters of r. On failure it writes the
// error response and returns false.
func (h *Handlers) searchParams(w http.ResponseWriter, r *http.Request) (cmr.SearchParams, bool) {
	q := r.URL.Query()

	params := cmr.SearchParams{
		CollectionID:   q.Get("collection_id"),
		Token:          q.Get("token"),
		TimeStart:      q.Get("temporal_start"),
		TimeEnd:        q.Get("temporal_end"),
		Polygon:        q.Get("polygon"),
		BoundingBox:    q.Get("bounding_box"),
		FilenameFilter: q.Get("filename_filter"),
	}

	var alias *config.CollectionAlias
	if aliasID := chi.URLParam(r, "collectionId"); aliasID != "" {
		alias = h.collections.Get(aliasID)
		if alias == nil {
			WriteNotFound(w, "collection not found")
			return params, false
		}
		params.CollectionID = alias.ConceptID
	}

	if params.CollectionID == "" {
		WriteInvalidParameter(w, "collection_id is required")
		return params, false
	}

	err := translate.Apply(&params, translate.STACQuery{
		DateTime:   q.Get("datetime"),
		BBox:       q.Get("bbox"),
		Intersects: q.Get("intersects"),
	})
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return params, false
	}

	if alias != nil {
		if params.FilenameFilter == "" {
			params.FilenameFilter = alias.FilenameFilter
		}
		if params.Polygon == "" && params.BoundingBox == "" {
			params.BoundingBox = alias.BoundingBox
		}
	}

	return params, true
}

func (h *Handlers) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "granule search failed",
		slog.String("request_id", GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, ErrCodeUpstreamError, "CMR request did not complete")
	default:
		WriteUpstreamError(w, "CMR search failed")
	}
}
