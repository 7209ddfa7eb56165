package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/cmr-granule-links/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_EndToEnd(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"feed":{"entry":[{"id":"G1","links":[
			{"href":"https://data.example/a.h5","rel":"http://esipfed.org/ns/fedsearch/1.1/data#"},
			{"href":"https://data.example/a.h5","rel":"http://esipfed.org/ns/fedsearch/1.1/data#"},
			{"href":"https://opendap.example/a.h5","title":"OPeNDAP"}
		]}]}}`))
	}))
	defer upstream.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "atl06.json"),
		[]byte(`{"id":"atl06","concept_id":"C1-NSIDC","filename_filter":"ATL06_*"}`), 0644))

	srv, err := New(Options{
		CMRBaseURL:     upstream.URL,
		PageSize:       10,
		CollectionsDir: dir,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections/atl06/urls?token=t", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		URLs  []string `json:"urls"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"https://data.example/a.h5"}, resp.URLs)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t,
		"&scroll=true&page_size=10&echo_collection_id=C1-NSIDC&token=t&producer_granule_id[]=ATL06_*&options[producer_granule_id][pattern]=true",
		gotQuery,
	)
}

func TestServer_MissingCollectionsDirFallsBack(t *testing.T) {
	srv, err := New(Options{
		CollectionsDir: filepath.Join(t.TempDir(), "missing"),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.NotNil(t, srv.Client())

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"collections":[],"count":0}`, w.Body.String())
}

func TestNewFromConfig(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"feed":{"entry":[{"links":[{"href":"https://data.example/b.nc"}]}]}}`))
	}))
	defer upstream.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sst.json"),
		[]byte(`{"id":"sst","concept_id":"C2-PODAAC","bounding_box":"0,0,10,10"}`), 0644))

	cfg := &config.Config{
		CMR: config.CMRConfig{
			BaseURL:      upstream.URL,
			PageSize:     5,
			EncodeValues: true,
		},
		STAC:        config.STACConfig{Version: "1.0.0", BaseURL: "http://localhost:8080"},
		Collections: config.CollectionsConfig{Dir: dir},
	}

	srv := NewFromConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections/sst/urls", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"urls":["https://data.example/b.nc"],"count":1}`, w.Body.String())
	assert.Equal(t, "&scroll=true&page_size=5&echo_collection_id=C2-PODAAC&bounding_box=0%2C0%2C10%2C10", gotQuery)
}
