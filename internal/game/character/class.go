package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class defines a playable character class loaded from YAML.
type Class struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// HPMultiplier scales starting max HP; 1.0 is neutral.
	HPMultiplier float64 `yaml:"hp_multiplier"`
	// AttackBonus and DefenseBonus are added to starting stats.
	AttackBonus  int `yaml:"attack_bonus"`
	DefenseBonus int `yaml:"defense_bonus"`
	// PreferredSkills lists skill IDs the class learns at reduced level.
	PreferredSkills []string `yaml:"preferred_skills"`
}

// Validate checks that the Class satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if c.HPMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("HPMultiplier must be positive, got %v", c.HPMultiplier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class validation failed: %v", errs)
	}
	return nil
}

// Prefers reports whether skillID is in the class's preferred skill list.
func (c *Class) Prefers(skillID string) bool {
	for _, id := range c.PreferredSkills {
		if id == skillID {
			return true
		}
	}
	return false
}

// LoadClasses reads all .yaml/.yml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all valid classes or the first encountered error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid class in %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

// ClassRegistry provides Class lookup by ID.
type ClassRegistry struct {
	classes map[string]*Class
}

// NewClassRegistry returns an empty ClassRegistry.
//
// Postcondition: Returns a non-nil registry ready to accept registrations.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]*Class)}
}

// Register adds a Class to the registry.
//
// Precondition: class must be non-nil with a non-empty ID.
// Postcondition: class is retrievable via Class(class.ID); returns an error
// if the ID is already registered.
func (r *ClassRegistry) Register(class *Class) error {
	if class == nil {
		return errors.New("character: ClassRegistry.Register: class must not be nil")
	}
	if class.ID == "" {
		return errors.New("character: ClassRegistry.Register: class ID must not be empty")
	}
	if _, exists := r.classes[class.ID]; exists {
		return fmt.Errorf("character: ClassRegistry.Register: class ID %q already registered", class.ID)
	}
	r.classes[class.ID] = class
	return nil
}

// Class returns the Class for the given ID, if registered.
//
// Postcondition: ok is true iff the ID is registered.
func (r *ClassRegistry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// All returns all registered classes in unspecified order.
//
// Postcondition: len(result) == number of registered classes.
func (r *ClassRegistry) All() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
