package cmr

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the CMR UAT environment.
	DefaultBaseURL = "https://cmr.uat.earthdata.nasa.gov"

	// DefaultPageSize is the number of granules requested. Only the first page is fetched.
	DefaultPageSize = 2000

	// MaxPageSize is the largest page size CMR accepts.
	MaxPageSize = 2000

	granuleSearchPath = "/search/granules.json"
)

// SearchParams are the caller-supplied granule search constraints.
// Empty strings mean the parameter is absent. Values are not validated.
type SearchParams struct {
	CollectionID string // echo_collection_id
	Token        string

	// Temporal range; the clause is only emitted when TimeStart is set.
	TimeStart string
	TimeEnd   string

	// Spatial constraint. Polygon takes priority over BoundingBox.
	Polygon     string // lon1,lat1,lon2,lat2,...
	BoundingBox string // west,south,east,north

	// FilenameFilter is a producer_granule_id pattern (e.g. "*_2020*.nc").
	FilenameFilter string
}

// QueryBuilder assembles granule search URLs against a fixed CMR endpoint.
type QueryBuilder struct {
	baseURL      string
	pageSize     int
	encodeValues bool
}

// NewQueryBuilder creates a builder for baseURL. Zero values select the defaults.
func NewQueryBuilder(baseURL string, pageSize int) *QueryBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &QueryBuilder{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		pageSize: pageSize,
	}
}

// WithEncodedValues controls whether parameter values are query-escaped.
// By default values are appended verbatim and must already be URL-safe.
func (b *QueryBuilder) WithEncodedValues(enabled bool) *QueryBuilder {
	b.encodeValues = enabled
	return b
}

// BaseQuery returns the search endpoint with scrolling and page size set.
func (b *QueryBuilder) BaseQuery() string {
	return b.baseURL + granuleSearchPath + "?&scroll=true&page_size=" + strconv.Itoa(b.pageSize)
}

// Build returns the complete query URL for params.
func (b *QueryBuilder) Build(params SearchParams) string {
	var sb strings.Builder
	sb.WriteString(b.BaseQuery())

	b.appendParam(&sb, "echo_collection_id", params.CollectionID)
	b.appendParam(&sb, "token", params.Token)

	if params.TimeStart != "" {
		b.appendParam(&sb, "temporal[]", params.TimeStart+","+params.TimeEnd)
	}

	switch {
	case params.Polygon != "":
		b.appendParam(&sb, "polygon", params.Polygon)
	case params.BoundingBox != "":
		b.appendParam(&sb, "bounding_box", params.BoundingBox)
	}

	if params.FilenameFilter != "" {
		b.appendParam(&sb, "producer_granule_id[]", params.FilenameFilter)
		sb.WriteString("&options[producer_granule_id][pattern]=true")
	}

	return sb.String()
}

func (b *QueryBuilder) appendParam(sb *strings.Builder, key, value string) {
	if b.encodeValues {
		value = url.QueryEscape(value)
	}
	sb.WriteByte('&')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(value)
}

// redactToken replaces the token parameter value so query URLs can be logged.
func redactToken(queryURL string) string {
	const key = "&token="
	i := strings.Index(queryURL, key)
	if i < 0 {
		return queryURL
	}
	start := i + len(key)
	end := strings.IndexByte(queryURL[start:], '&')
	if end < 0 {
		end = len(queryURL)
	} else {
		end += start
	}
	if start == end {
		return queryURL
	}
	return queryURL[:start] + "REDACTED" + queryURL[end:]
}
