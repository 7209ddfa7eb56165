package cmr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testBase = "https://cmr.example.gov/search/granules.json?&scroll=true&page_size=2000"

func TestQueryBuilder_Build(t *testing.T) {
	b := NewQueryBuilder("https://cmr.example.gov", 0)

	tests := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			name:   "collection and token only",
			params: SearchParams{CollectionID: "C123-NSIDC", Token: "tok"},
			want:   testBase + "&echo_collection_id=C123-NSIDC&token=tok",
		},
		{
			name: "temporal range",
			params: SearchParams{
				CollectionID: "C1", Token: "t",
				TimeStart: "2020-01-01T00:00:00Z", TimeEnd: "2020-01-02T00:00:00Z",
			},
			want: testBase + "&echo_collection_id=C1&token=t&temporal[]=2020-01-01T00:00:00Z,2020-01-02T00:00:00Z",
		},
		{
			name:   "temporal start without end",
			params: SearchParams{CollectionID: "C1", Token: "t", TimeStart: "2020-01-01T00:00:00Z"},
			want:   testBase + "&echo_collection_id=C1&token=t&temporal[]=2020-01-01T00:00:00Z,",
		},
		{
			name:   "end without start is ignored",
			params: SearchParams{CollectionID: "C1", Token: "t", TimeEnd: "2020-01-02T00:00:00Z"},
			want:   testBase + "&echo_collection_id=C1&token=t",
		},
		{
			name: "polygon wins over bounding box",
			params: SearchParams{
				CollectionID: "C1", Token: "t",
				Polygon: "-10,-10,10,-10,10,10,-10,10,-10,-10", BoundingBox: "-180,-90,180,90",
			},
			want: testBase + "&echo_collection_id=C1&token=t&polygon=-10,-10,10,-10,10,10,-10,10,-10,-10",
		},
		{
			name:   "bounding box",
			params: SearchParams{CollectionID: "C1", Token: "t", BoundingBox: "-180,-90,180,90"},
			want:   testBase + "&echo_collection_id=C1&token=t&bounding_box=-180,-90,180,90",
		},
		{
			name:   "filename filter",
			params: SearchParams{CollectionID: "C1", Token: "t", FilenameFilter: "*2020*.h5"},
			want:   testBase + "&echo_collection_id=C1&token=t&producer_granule_id[]=*2020*.h5&options[producer_granule_id][pattern]=true",
		},
		{
			name:   "empty values pass through",
			params: SearchParams{},
			want:   testBase + "&echo_collection_id=&token=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Build(tt.params))
		})
	}
}

func TestQueryBuilder_BothSpatialNeverEmitted(t *testing.T) {
	got := NewQueryBuilder("", 0).Build(SearchParams{Polygon: "p", BoundingBox: "b"})

	assert.Contains(t, got, "&polygon=p")
	assert.NotContains(t, got, "bounding_box")
}

func TestQueryBuilder_Defaults(t *testing.T) {
	b := NewQueryBuilder("", -1)
	assert.Equal(t, DefaultBaseURL+"/search/granules.json?&scroll=true&page_size=2000", b.BaseQuery())

	b = NewQueryBuilder("https://cmr.earthdata.nasa.gov/", 50)
	assert.Equal(t, "https://cmr.earthdata.nasa.gov/search/granules.json?&scroll=true&page_size=50", b.BaseQuery())

	b = NewQueryBuilder("https://cmr.earthdata.nasa.gov", MaxPageSize+1)
	assert.True(t, strings.HasSuffix(b.BaseQuery(), "page_size=2000"))
}

func TestQueryBuilder_EncodedValues(t *testing.T) {
	b := NewQueryBuilder("https://cmr.example.gov", 0).WithEncodedValues(true)

	got := b.Build(SearchParams{CollectionID: "C1", Token: "a&b", FilenameFilter: "x y"})

	assert.Equal(t,
		testBase+"&echo_collection_id=C1&token=a%26b&producer_granule_id[]=x+y&options[producer_granule_id][pattern]=true",
		got,
	)
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://x?&echo_collection_id=C1&token=secret&polygon=1", "https://x?&echo_collection_id=C1&token=REDACTED&polygon=1"},
		{"https://x?&echo_collection_id=C1&token=secret", "https://x?&echo_collection_id=C1&token=REDACTED"},
		{"https://x?&echo_collection_id=C1&token=", "https://x?&echo_collection_id=C1&token="},
		{"https://x?&echo_collection_id=C1", "https://x?&echo_collection_id=C1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, redactToken(tt.in))
	}
}
