package achievements

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/stats"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is the ordered list of achievements users can earn.
type Catalog struct {
	Achievements []models.Achievement `yaml:"achievements"`
}

// DefaultCatalog returns the catalog built into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in achievement catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievement catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}

	seen := make(map[string]bool)
	for i, a := range c.Achievements {
		a.ID = strings.TrimSpace(a.ID)
		if a.ID == "" {
			return nil, errors.Validation("achievement", "entry %d has no id", i)
		}
		if seen[a.ID] {
			return nil, errors.Validation("achievement", "duplicate id %q", a.ID)
		}
		seen[a.ID] = true
		if !slices.Contains(models.Metrics(), a.Metric) {
			return nil, errors.Validation("achievement", "%q uses unknown metric %q", a.ID, a.Metric)
		}
		if a.Threshold < 1 {
			return nil, errors.Validation("achievement", "%q threshold must be at least 1", a.ID)
		}
		if a.Name == "" {
			a.Name = a.ID
		}
		c.Achievements[i] = a
	}
	return &c, nil
}

// Rules turns each catalog entry into a threshold rule, keeping catalog order.
func (c *Catalog) Rules() []Rule {
	rules := make([]Rule, 0, len(c.Achievements))
	for _, a := range c.Achievements {
		rules = append(rules, Rule{ID: a.ID, Criteria: AtLeast(a.Metric, a.Threshold)})
	}
	return rules
}

// Lookup returns the entry with id.
func (c *Catalog) Lookup(id string) (models.Achievement, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}

// Statuses lists every entry with userID's unlock state.
func (c *Catalog) Statuses(state *models.State, userID string) []models.AchievementStatus {
	unlockedAt := make(map[string]models.Unlock)
	for _, u := range state.Unlocks {
		if u.UserID == userID {
			unlockedAt[u.AchievementID] = u
		}
	}

	statuses := make([]models.AchievementStatus, 0, len(c.Achievements))
	for _, a := range c.Achievements {
		s := models.AchievementStatus{Achievement: a}
		if u, ok := unlockedAt[a.ID]; ok {
			at := u.UnlockedAt
			s.Unlocked = true
			s.UnlockedAt = &at
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// AtLeast is satisfied once metric reaches threshold.
func AtLeast(metric models.Metric, threshold int) Criteria {
	return func(a stats.Activity) bool {
		return a.Metric(metric) >= threshold
	}
}
