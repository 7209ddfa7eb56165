package cmr

import (
	"strings"
)

// DataRelMarker marks link relations in CMR's data/metadata namespace,
// e.g. "http://esipfed.org/ns/fedsearch/1.1/data#".
const DataRelMarker = "data#"

// Exclusion rule names, in the order they are evaluated.
const (
	RuleMissingHref       = "missing_href"
	RuleInherited         = "inherited"
	RuleNotData           = "not_data"
	RuleOPeNDAP           = "opendap"
	RuleDuplicateFilename = "duplicate_filename"
)

// linkRule vetoes a link when excludes returns true.
type linkRule struct {
	name     string
	excludes func(Link) bool
}

// newLinkRules returns the ordered rule table for one filtering pass.
// The duplicate filename rule is last and records every filename it lets
// through, so it only marks links that are accepted.
func newLinkRules() []linkRule {
	seen := make(map[string]struct{})

	return []linkRule{
		{RuleMissingHref, func(l Link) bool {
			_, ok := l.Href.Get()
			return !ok
		}},
		{RuleInherited, func(l Link) bool {
			inherited, ok := l.Inherited.Get()
			return ok && inherited
		}},
		{RuleNotData, func(l Link) bool {
			if !l.Rel.Present() {
				return false
			}
			rel, ok := l.Rel.Get()
			return !ok || !strings.Contains(rel, DataRelMarker)
		}},
		{RuleOPeNDAP, func(l Link) bool {
			if !l.Title.Present() {
				return false
			}
			title, ok := l.Title.Get()
			return !ok || strings.Contains(strings.ToLower(title), "opendap")
		}},
		{RuleDuplicateFilename, func(l Link) bool {
			href, _ := l.Href.Get()
			name := Filename(href)
			if _, dup := seen[name]; dup {
				return true
			}
			seen[name] = struct{}{}
			return false
		}},
	}
}

// Filename returns the final "/"-delimited segment of href.
func Filename(href string) string {
	return href[strings.LastIndexByte(href, '/')+1:]
}

// GranuleLinks are the accepted URLs of a single feed entry.
type GranuleLinks struct {
	ID                  string
	Title               string
	ProducerGranuleID   string
	CollectionConceptID string
	TimeStart           string
	TimeEnd             string
	URLs                []string
	Types               []string // media type per URL, "" when CMR gave none
}

// FilterReport is the outcome of a filtering pass with per-rule exclusion counts.
type FilterReport struct {
	URLs     []string
	Granules []GranuleLinks
	Total    int
	Excluded map[string]int
}

// FilterLinks returns the unique downloadable data URLs of result, in
// entry/link traversal order.
func FilterLinks(result *SearchResponse) []string {
	return FilterLinksReport(result).URLs
}

// FilterEntries applies the same rules as FilterLinks but groups accepted
// URLs by the entry they came from. Entries with no accepted link are omitted.
func FilterEntries(result *SearchResponse) []GranuleLinks {
	return FilterLinksReport(result).Granules
}

// FilterLinksReport filters result and reports how many links each rule vetoed.
func FilterLinksReport(result *SearchResponse) *FilterReport {
	report := &FilterReport{
		URLs:     []string{},
		Granules: []GranuleLinks{},
		Excluded: make(map[string]int),
	}

	rules := newLinkRules()

	for _, entry := range result.Entries() {
		links, ok := entry.Links.Get()
		if !ok {
			continue
		}

		var granule *GranuleLinks
		for _, link := range links {
			report.Total++
			if rule, vetoed := firstVeto(rules, link); vetoed {
				report.Excluded[rule]++
				continue
			}

			href, _ := link.Href.Get()
			report.URLs = append(report.URLs, href)

			if granule == nil {
				report.Granules = append(report.Granules, newGranuleLinks(entry))
				granule = &report.Granules[len(report.Granules)-1]
			}
			granule.URLs = append(granule.URLs, href)
			granule.Types = append(granule.Types, link.Type.Or(""))
		}
	}

	return report
}

// firstVeto returns the name of the first rule that excludes link.
func firstVeto(rules []linkRule, link Link) (string, bool) {
	for _, rule := range rules {
		if rule.excludes(link) {
			return rule.name, true
		}
	}
	return "", false
}

func newGranuleLinks(entry Entry) GranuleLinks {
	return GranuleLinks{
		ID:                  entry.ID.Or(""),
		Title:               entry.Title.Or(""),
		ProducerGranuleID:   entry.ProducerGranuleID.Or(""),
		CollectionConceptID: entry.CollectionConceptID.Or(""),
		TimeStart:           entry.TimeStart.Or(""),
		TimeEnd:             entry.TimeEnd.Or(""),
	}
}
