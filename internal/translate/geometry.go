package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/cmr-granule-links/pkg/geojson"
)

// BBoxToCMR converts a STAC bbox query value ("w,s,e,n" or the 6-value 3D
// form) to CMR's bounding_box value.
func BBoxToCMR(bbox string) (string, error) {
	fields := strings.Split(bbox, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrInvalidBBox, f)
		}
		values = append(values, v)
	}

	switch len(values) {
	case 4:
	case 6:
		// Elevation values are ignored
		values = []float64{values[0], values[1], values[3], values[4]}
	default:
		return "", fmt.Errorf("%w: must have 4 or 6 values, got %d", ErrInvalidBBox, len(values))
	}

	if values[1] > values[3] {
		return "", fmt.Errorf("%w: south must not exceed north", ErrInvalidBBox)
	}
	if values[1] < -90 || values[3] > 90 {
		return "", fmt.Errorf("%w: latitude out of range", ErrInvalidBBox)
	}
	if values[0] < -180 || values[2] > 180 {
		return "", fmt.Errorf("%w: longitude out of range", ErrInvalidBBox)
	}

	out, err := geojson.FormatBBox(values)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBBox, err)
	}
	return out, nil
}

// IntersectsToCMRPolygon converts a GeoJSON Polygon to CMR's polygon value.
func IntersectsToCMRPolygon(intersects string) (string, error) {
	g, err := geojson.Parse(intersects)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidGeometry, err)
	}

	polygon, err := geojson.ToCMRPolygon(g)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidGeometry, err)
	}
	return polygon, nil
}
