package stac

import (
	"fmt"
	"path"
	"strings"

	gostac "github.com/planetlabs/go-stac"
	"github.com/robert-malhotra/cmr-granule-links/internal/cmr"
)

// mediaTypes maps common granule file extensions to asset media types.
var mediaTypes = map[string]string{
	".nc":   "application/x-netcdf",
	".nc4":  "application/x-netcdf",
	".h5":   "application/x-hdf5",
	".he5":  "application/x-hdf5",
	".hdf":  "application/x-hdf",
	".zip":  "application/zip",
	".tif":  "image/tiff; application=geotiff",
	".tiff": "image/tiff; application=geotiff",
	".xml":  "application/xml",
	".json": "application/json",
	".txt":  "text/plain",
}

// ItemsFromGranules converts grouped granule links into STAC Items, one per
// granule, with one data asset per accepted URL keyed by its filename.
func ItemsFromGranules(granules []cmr.GranuleLinks, collectionID, baseURL, version string) []*gostac.Item {
	items := make([]*gostac.Item, 0, len(granules))
	for i := range granules {
		items = append(items, itemFromGranule(&granules[i], i, collectionID, baseURL, version))
	}
	return items
}

func itemFromGranule(g *cmr.GranuleLinks, index int, collectionID, baseURL, version string) *gostac.Item {
	item := NewItem(granuleItemID(g, index), collectionID, version)

	// Geometry is not part of the link feed, so datetime carries the only extent
	item.Properties["datetime"] = nil
	if g.TimeStart != "" {
		item.Properties["start_datetime"] = g.TimeStart
		if g.TimeEnd != "" {
			item.Properties["end_datetime"] = g.TimeEnd
		} else {
			item.Properties["end_datetime"] = g.TimeStart
		}
	}
	if g.ID != "" {
		item.Properties["cmr:concept_id"] = g.ID
	}
	if g.CollectionConceptID != "" {
		item.Properties["cmr:collection_concept_id"] = g.CollectionConceptID
	}

	for i, href := range g.URLs {
		var mediaType string
		if i < len(g.Types) {
			mediaType = g.Types[i]
		}
		if mediaType == "" {
			mediaType = mediaTypeFor(href)
		}

		item.Assets[cmr.Filename(href)] = &gostac.Asset{
			Href:  href,
			Title: cmr.Filename(href),
			Type:  mediaType,
			Roles: []string{"data"},
		}
	}

	item.Links = append(item.Links, &gostac.Link{
		Rel:  "root",
		Href: strings.TrimSuffix(baseURL, "/") + "/",
		Type: "application/json",
	})

	return item
}

// granuleItemID prefers the producer granule id, then the title, then the
// CMR concept id.
func granuleItemID(g *cmr.GranuleLinks, index int) string {
	for _, id := range []string{g.ProducerGranuleID, g.Title, g.ID} {
		if id != "" {
			return id
		}
	}
	return fmt.Sprintf("granule-%d", index+1)
}

func mediaTypeFor(href string) string {
	return mediaTypes[strings.ToLower(path.Ext(cmr.Filename(href)))]
}
