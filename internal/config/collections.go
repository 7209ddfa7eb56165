package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectionAlias maps a short, stable name to a CMR collection and optional
// default search constraints. Aliases are loaded from JSON files so callers
// do not have to remember echo collection IDs.
type CollectionAlias struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ConceptID      string `json:"concept_id"`
	FilenameFilter string `json:"filename_filter,omitempty"`
	BoundingBox    string `json:"bounding_box,omitempty"`
}

// CollectionRegistry holds all loaded aliases indexed by ID.
type CollectionRegistry struct {
	collections map[string]*CollectionAlias
}

// NewCollectionRegistry creates a new empty collection registry.
func NewCollectionRegistry() *CollectionRegistry {
	return &CollectionRegistry{
		collections: make(map[string]*CollectionAlias),
	}
}

// LoadCollections loads alias definitions from the .json files in collectionsDir.
func LoadCollections(collectionsDir string) (*CollectionRegistry, error) {
	registry := NewCollectionRegistry()

	info, err := os.Stat(collectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access collections directory %q: %w", collectionsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("collections path %q is not a directory", collectionsDir)
	}

	entries, err := os.ReadDir(collectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections directory %q: %w", collectionsDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}

		filePath := filepath.Join(collectionsDir, entry.Name())
		alias, err := loadCollectionFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection from %q: %w", filePath, err)
		}

		if err := registry.Add(alias); err != nil {
			return nil, fmt.Errorf("failed to add collection from %q: %w", filePath, err)
		}
	}

	if registry.Count() == 0 {
		return nil, fmt.Errorf("no collection files found in %q", collectionsDir)
	}

	return registry, nil
}

func loadCollectionFile(filePath string) (*CollectionAlias, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var alias CollectionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := validateCollection(&alias); err != nil {
		return nil, fmt.Errorf("invalid collection configuration: %w", err)
	}

	return &alias, nil
}

func validateCollection(c *CollectionAlias) error {
	if c.ID == "" {
		return fmt.Errorf("collection ID is required")
	}
	if c.ConceptID == "" {
		return fmt.Errorf("collection %q must specify a concept_id", c.ID)
	}
	return nil
}

// Add registers an alias. Returns an error if the ID is already taken.
func (r *CollectionRegistry) Add(alias *CollectionAlias) error {
	if alias == nil {
		return fmt.Errorf("cannot add nil collection")
	}

	if _, exists := r.collections[alias.ID]; exists {
		return fmt.Errorf("collection with ID %q already exists", alias.ID)
	}

	r.collections[alias.ID] = alias
	return nil
}

// Get retrieves an alias by ID, or nil.
func (r *CollectionRegistry) Get(id string) *CollectionAlias {
	return r.collections[id]
}

// All returns all aliases sorted by ID.
func (r *CollectionRegistry) All() []*CollectionAlias {
	all := make([]*CollectionAlias, 0, len(r.collections))
	for _, alias := range r.collections {
		all = append(all, alias)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Count returns the number of aliases in the registry.
func (r *CollectionRegistry) Count() int {
	return len(r.collections)
}
