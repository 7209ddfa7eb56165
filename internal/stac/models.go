// Package stac provides STAC response types, wrapping planetlabs/go-stac
// for core types, and the conversion of filtered granule links into Items.
package stac

import (
	gostac "github.com/planetlabs/go-stac"
)

// ItemCollection represents a STAC ItemCollection (GeoJSON FeatureCollection).
type ItemCollection struct {
	Type           string         `json:"type"` // "FeatureCollection"
	Features       []*gostac.Item `json:"features"`
	Links          []*gostac.Link `json:"links"`
	NumberReturned int            `json:"numberReturned"`
}

// NewItemCollection creates a new ItemCollection with the given items.
func NewItemCollection(items []*gostac.Item) *ItemCollection {
	if items == nil {
		items = make([]*gostac.Item, 0)
	}
	return &ItemCollection{
		Type:           "FeatureCollection",
		Features:       items,
		Links:          make([]*gostac.Link, 0),
		NumberReturned: len(items),
	}
}

// AddLink adds a link to the ItemCollection.
func (ic *ItemCollection) AddLink(rel, href, mediaType string) {
	ic.Links = append(ic.Links, &gostac.Link{
		Rel:  rel,
		Href: href,
		Type: mediaType,
	})
}

// NewItem creates a new STAC Item with the given ID and collection.
func NewItem(id, collection, version string) *gostac.Item {
	return &gostac.Item{
		Version:    version,
		Id:         id,
		Collection: collection,
		Properties: make(map[string]any),
		Assets:     make(map[string]*gostac.Asset),
		Links:      make([]*gostac.Link, 0),
	}
}
