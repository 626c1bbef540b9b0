// Package quest defines quests with objectives and tracks per-character
// quest progress.
package quest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Objective is a single step toward completing a quest.
type Objective struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Quest is a named set of objectives with a currency reward.
type Quest struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Objectives  []Objective `yaml:"objectives"`
	// Reward is the currency granted when every objective is complete.
	Reward int `yaml:"reward"`
}

// Validate checks that the Quest satisfies its invariants.
//
// Postcondition: returns nil iff the quest has an ID, a name, at least one
// objective, unique objective IDs, and a non-negative reward.
func (q *Quest) Validate() error {
	var errs []error
	if q.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if q.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(q.Objectives) == 0 {
		errs = append(errs, errors.New("Objectives must not be empty"))
	}
	seen := make(map[string]bool, len(q.Objectives))
	for i, o := range q.Objectives {
		if o.ID == "" {
			errs = append(errs, fmt.Errorf("objective %d: ID must not be empty", i))
			continue
		}
		if seen[o.ID] {
			errs = append(errs, fmt.Errorf("objective %d: duplicate ID %q", i, o.ID))
		}
		seen[o.ID] = true
	}
	if q.Reward < 0 {
		errs = append(errs, fmt.Errorf("Reward must be >= 0, got %d", q.Reward))
	}
	if len(errs) > 0 {
		return fmt.Errorf("quest validation failed for %q: %v", q.ID, errs)
	}
	return nil
}

// Objective returns the objective with the given ID.
func (q *Quest) Objective(id string) (*Objective, bool) {
	for i := range q.Objectives {
		if q.Objectives[i].ID == id {
			return &q.Objectives[i], true
		}
	}
	return nil, false
}

// LoadQuests reads every YAML file in dir and returns the quest
// definitions it contains. Each file holds one quest.
//
// Postcondition: every returned quest satisfies Validate().
func LoadQuests(dir string) ([]*Quest, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("quest: LoadQuests: %w", err)
	}
	quests := make([]*Quest, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("quest: LoadQuests: read %s: %w", path, err)
		}
		var q Quest
		if err := yaml.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("quest: LoadQuests: parse %s: %w", path, err)
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quest: LoadQuests: %s: %w", path, err)
		}
		quests = append(quests, &q)
	}
	return quests, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
