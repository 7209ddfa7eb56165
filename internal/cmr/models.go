package cmr

import (
	"encoding/json"
)

// Field is an optional attribute of a CMR JSON record. A missing or null key
// leaves the field absent. A key whose value has the wrong JSON type is
// present but not valid, and never fails decoding of the enclosing document.
type Field[T any] struct {
	value   T
	present bool
	valid   bool
}

// Some returns a present, valid field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{value: v, present: true, valid: true}
}

// Present reports whether the key appeared with a non-null value.
func (f Field[T]) Present() bool {
	return f.present
}

// Get returns the value and whether it was present with the expected type.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.valid
}

// Or returns the value, or fallback when the field is absent or malformed.
func (f Field[T]) Or(fallback T) T {
	if !f.valid {
		return fallback
	}
	return f.value
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	*f = Field[T]{}
	if string(data) == "null" {
		return nil
	}
	f.present = true

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	f.value = v
	f.valid = true
	return nil
}

// MarshalJSON implements json.Marshaler. Absent and malformed fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// SearchResponse is the body of a granules.json search.
type SearchResponse struct {
	Feed Field[Feed] `json:"feed"`
}

// UnmarshalJSON decodes a search response, treating a well-formed non-object
// document as a response with no feed.
func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	type plain SearchResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*r = SearchResponse{}
		return nil
	}
	*r = SearchResponse(p)
	return nil
}

// Feed holds the ordered granule entries of a search response.
type Feed struct {
	ID    Field[string]  `json:"id"`
	Title Field[string]  `json:"title"`
	Entry Field[[]Entry] `json:"entry"`
}

// Entry is a single granule in the feed.
type Entry struct {
	ID                  Field[string] `json:"id"`
	Title               Field[string] `json:"title"`
	ProducerGranuleID   Field[string] `json:"producer_granule_id"`
	CollectionConceptID Field[string] `json:"collection_concept_id"`
	TimeStart           Field[string] `json:"time_start"`
	TimeEnd             Field[string] `json:"time_end"`
	Links               Field[[]Link] `json:"links"`
}

// UnmarshalJSON decodes an entry, treating a non-object value as an entry
// with no fields.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*e = Entry{}
		return nil
	}
	*e = Entry(p)
	return nil
}

// Link is one URL record attached to a granule entry.
type Link struct {
	Href      Field[string] `json:"href"`
	Rel       Field[string] `json:"rel"`
	Inherited Field[bool]   `json:"inherited"`
	Title     Field[string] `json:"title"`
	Type      Field[string] `json:"type"`
}

// UnmarshalJSON decodes a link, treating a non-object value as a link with
// no fields.
func (l *Link) UnmarshalJSON(data []byte) error {
	type plain Link
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*l = Link{}
		return nil
	}
	*l = Link(p)
	return nil
}

// Entries returns the feed entries, or nil when the response has no feed or
// the feed has no entry collection.
func (r *SearchResponse) Entries() []Entry {
	if r == nil {
		return nil
	}
	feed, ok := r.Feed.Get()
	if !ok {
		return nil
	}
	entries, _ := feed.Entry.Get()
	return entries
}
