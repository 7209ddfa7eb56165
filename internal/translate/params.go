package translate

import (
	"github.com/robert-malhotra/cmr-granule-links/internal/cmr"
)

// STACQuery holds STAC-style alternatives to the raw CMR search parameters.
type STACQuery struct {
	DateTime   string // RFC3339 instant or interval
	BBox       string // w,s,e,n
	Intersects string // GeoJSON Polygon
}

// Apply fills the temporal and spatial fields of params from q. Fields that
// are already set on params take precedence and are left untouched.
func Apply(params *cmr.SearchParams, q STACQuery) error {
	if params.TimeStart == "" && q.DateTime != "" {
		start, end, err := TemporalFromDateTime(q.DateTime)
		if err != nil {
			return err
		}
		params.TimeStart, params.TimeEnd = start, end
	}

	if params.Polygon == "" && q.Intersects != "" {
		polygon, err := IntersectsToCMRPolygon(q.Intersects)
		if err != nil {
			return err
		}
		params.Polygon = polygon
	}

	if params.BoundingBox == "" && q.BBox != "" {
		bbox, err := BBoxToCMR(q.BBox)
		if err != nil {
			return err
		}
		params.BoundingBox = bbox
	}

	return nil
}
