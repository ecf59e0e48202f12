package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Routing tiers available under automatic routing.
const (
	RoutingCheapest = "Cheapest"
	RoutingPremium  = "Premium"
)

const (
	envModelsFile = "GATO_MODELS_FILE"
	envModels     = "GATO_MODELS"
)

type fileConfig struct {
	Models []ModelEntry `yaml:"models"`
}

// ModelEntry is one model as declared in the catalog file.
type ModelEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"`
}

// Option is a selectable value with its display name.
type Option struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

var (
	stateMu     sync.RWMutex
	initialized bool
	modelByID   map[string]Option
	modelList   []string
)

var routingModes = []Option{
	{Value: RoutingCheapest, Name: "Cheapest"},
	{Value: RoutingPremium, Name: "Premium"},
}

var strategies = []Option{
	{Value: "auto", Name: "Automatic Routing"},
	{Value: "custom", Name: "Custom Endpoint"},
}

// InitFromEnvAndConfig initializes catalog by loading file and applying env overrides.
// On a file error the defaults are installed and the error is returned.
func InitFromEnvAndConfig() error {
	entries, err := loadModels()

	stateMu.Lock()
	defer stateMu.Unlock()

	modelByID = make(map[string]Option, len(entries))
	modelList = modelList[:0]
	for _, e := range entries {
		if _, dup := modelByID[e.Value]; dup {
			continue
		}
		modelByID[e.Value] = e
		modelList = append(modelList, e.Value)
	}
	initialized = true
	return err
}

func ensureInitialized() {
	stateMu.RLock()
	ok := initialized
	stateMu.RUnlock()
	if ok {
		return
	}
	_ = InitFromEnvAndConfig()
}

// ResetForTest resets in-memory state so tests can force reload.
func ResetForTest() {
	stateMu.Lock()
	defer stateMu.Unlock()
	initialized = false
	modelByID = nil
	modelList = nil
}

// Models returns the configured models in declaration order.
func Models() []Option {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	result := make([]Option, 0, len(modelList))
	for _, id := range modelList {
		result = append(result, modelByID[id])
	}
	return result
}

// ModelIDs returns the configured model identifiers in declaration order.
func ModelIDs() []string {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()
	return append([]string(nil), modelList...)
}

// IsKnownModel reports whether id is a configured model. Matching is exact.
func IsKnownModel(id string) bool {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()
	_, ok := modelByID[id]
	return ok
}

// RoutingModes returns the automatic routing tiers.
func RoutingModes() []Option {
	return append([]Option(nil), routingModes...)
}

// Strategies returns the selectable strategies.
func Strategies() []Option {
	return append([]Option(nil), strategies...)
}

// IsRoutingMode reports whether s names a routing tier.
func IsRoutingMode(s string) bool {
	return containsValue(routingModes, s)
}

// IsStrategy reports whether s names a strategy.
func IsStrategy(s string) bool {
	return containsValue(strategies, s)
}

func containsValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func defaultModels() []Option {
	return []Option{
		{Value: "Voyage Large 3", Name: "Voyage Large 3"},
		{Value: "Llama 4 Scout", Name: "Llama 4 Scout"},
		{Value: "Voyage", Name: "Voyage"},
	}
}

func loadModels() ([]Option, error) {
	if raw := strings.TrimSpace(os.Getenv(envModels)); raw != "" {
		var fromEnv []Option
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			fromEnv = append(fromEnv, Option{Value: id, Name: id})
		}
		if len(fromEnv) > 0 {
			return fromEnv, nil
		}
	}

	entries, loadErr := loadConfigModels()
	models := make([]Option, 0, len(entries))
	for _, e := range entries {
		opt, ok := normalizeEntry(e)
		if !ok {
			continue
		}
		models = append(models, opt)
	}
	if len(models) == 0 {
		models = defaultModels()
	}
	return models, loadErr
}

func loadConfigModels() ([]ModelEntry, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog file %q: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog file %q: %w", path, err)
	}

	return cfg.Models, nil
}

func resolveConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv(envModelsFile)); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	candidates := []string{
		"config/models.yaml",
		"/etc/gato/models.yaml",
		"/usr/local/etc/gato/models.yaml",
	}

	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "gato", "models.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func normalizeEntry(e ModelEntry) (Option, bool) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return Option{}, false
	}
	if e.Enabled != nil && !*e.Enabled {
		return Option{}, false
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = id
	}
	return Option{Value: id, Name: name}, true
}
