// Package geojson provides GeoJSON geometry types and conversions to CMR
// spatial search parameters.
package geojson

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Geometry represents a GeoJSON geometry object.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Parse decodes a GeoJSON geometry from its JSON text.
func Parse(s string) (*Geometry, error) {
	var g Geometry
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON geometry: %w", err)
	}
	if g.Type == "" {
		return nil, fmt.Errorf("GeoJSON geometry has no type")
	}
	return &g, nil
}

// Polygon returns the coordinates as a Polygon [][][lon, lat].
// Returns error if geometry is not a Polygon.
func (g *Geometry) Polygon() ([][][]float64, error) {
	if g.Type != "Polygon" {
		return nil, fmt.Errorf("geometry is not a Polygon, got %s", g.Type)
	}
	var coords [][][]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Polygon coordinates: %w", err)
	}
	return coords, nil
}

// ToCMRPolygon converts a Polygon's exterior ring to CMR's polygon parameter
// format "lon1,lat1,lon2,lat2,...". CMR requires a closed ring in
// counter-clockwise order, so the ring is closed and reoriented as needed.
// Interior rings are ignored.
func ToCMRPolygon(g *Geometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("geometry is nil")
	}

	rings, err := g.Polygon()
	if err != nil {
		return "", err
	}
	if len(rings) == 0 {
		return "", fmt.Errorf("polygon has no rings")
	}

	ring := make([][]float64, 0, len(rings[0])+1)
	for i, pt := range rings[0] {
		if len(pt) < 2 {
			return "", fmt.Errorf("invalid position %d: expected at least 2 values, got %d", i, len(pt))
		}
		ring = append(ring, pt[:2])
	}

	ring = CloseRing(ring)
	if len(ring) < 4 {
		return "", fmt.Errorf("polygon ring needs at least 4 positions, got %d", len(ring))
	}

	if !IsCounterClockwise(ring) {
		reverse(ring)
	}

	parts := make([]string, 0, len(ring)*2)
	for _, pt := range ring {
		parts = append(parts, formatFloat(pt[0]), formatFloat(pt[1]))
	}
	return strings.Join(parts, ","), nil
}

// CloseRing returns ring with its first position appended if it is not closed.
func CloseRing(ring [][]float64) [][]float64 {
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, []float64{first[0], first[1]})
	}
	return ring
}

// IsCounterClockwise reports whether a closed ring has positive signed area.
func IsCounterClockwise(ring [][]float64) bool {
	var area float64
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return area > 0
}

// FormatBBox formats [west, south, east, north] as CMR's bounding_box value.
func FormatBBox(bbox []float64) (string, error) {
	if len(bbox) != 4 {
		return "", fmt.Errorf("bbox must have 4 values [west, south, east, north], got %d", len(bbox))
	}
	parts := make([]string, len(bbox))
	for i, v := range bbox {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ","), nil
}

func reverse(ring [][]float64) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

// formatFloat formats a float64 without unnecessary decimals
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
