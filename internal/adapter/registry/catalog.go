package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pam-ai/pamgate/internal/core/domain"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Models []catalogEntry `yaml:"models"`
}

type catalogEntry struct {
	ID                string  `yaml:"id"`
	Provider          string  `yaml:"provider"`
	CostIn            float64 `yaml:"cost_in"`
	CostOut           float64 `yaml:"cost_out"`
	MaxContext        int     `yaml:"max_context"`
	SupportsTools     bool    `yaml:"supports_tools"`
	SupportsStreaming bool    `yaml:"supports_streaming"`
}

// DefaultCatalog returns the catalog compiled into the binary
func DefaultCatalog() ([]domain.ModelDescriptor, error) {
	return ParseCatalog(embeddedCatalog)
}

// LoadCatalog reads a catalog override from disk, an empty path means the
// embedded catalog
func LoadCatalog(path string) ([]domain.ModelDescriptor, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog, descriptors come back ordered by id
func ParseCatalog(data []byte) ([]domain.ModelDescriptor, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	seen := make(map[domain.ModelID]struct{}, len(file.Models))
	models := make([]domain.ModelDescriptor, 0, len(file.Models))

	for i, entry := range file.Models {
		id := domain.ModelID(strings.TrimSpace(entry.ID))
		if id.IsEmpty() {
			return nil, &domain.ConfigValidationError{Field: fmt.Sprintf("models[%d].id", i), Value: entry.ID, Reason: "id is required"}
		}
		if _, dup := seen[id]; dup {
			return nil, &domain.ConfigValidationError{Field: fmt.Sprintf("models[%d].id", i), Value: id, Reason: "duplicate model id"}
		}

		provider, err := domain.ParseProvider(entry.Provider)
		if err != nil {
			return nil, &domain.ConfigValidationError{Field: fmt.Sprintf("models[%d].provider", i), Value: entry.Provider, Reason: err.Error()}
		}
		if entry.CostIn < 0 || entry.CostOut < 0 {
			return nil, &domain.ConfigValidationError{Field: fmt.Sprintf("models[%d].cost", i), Value: id, Reason: "costs must not be negative"}
		}

		seen[id] = struct{}{}
		models = append(models, domain.ModelDescriptor{
			ID:                id,
			Provider:          provider,
			CostInPerMillion:  entry.CostIn,
			CostOutPerMillion: entry.CostOut,
			MaxContext:        entry.MaxContext,
			SupportsTools:     entry.SupportsTools,
			SupportsStreaming: entry.SupportsStreaming,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})
	return models, nil
}
