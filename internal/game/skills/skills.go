// Package skills tracks learned skills per character with class-based
// level requirements.
package skills

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/duskvale/rpg/internal/game/character"
)

// ErrLevelTooLow is returned when a character does not meet a skill's
// level requirement.
var ErrLevelTooLow = errors.New("character level below skill requirement")

// ErrAlreadyLearned is returned when learning a skill twice.
var ErrAlreadyLearned = errors.New("skill already learned")

// DefaultClassReduction is how many levels a class's preferred skills are
// discounted by.
const DefaultClassReduction = 2

// Skill is a learnable ability with a minimum level requirement.
type Skill struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// RequiredLevel is the minimum character level to learn, >= 1.
	RequiredLevel int `yaml:"required_level"`
	// Category groups skills for display (Gathering, Crafting, Utility).
	Category string `yaml:"category"`
}

// Validate checks that the Skill satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *Skill) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if s.RequiredLevel < 1 {
		errs = append(errs, fmt.Errorf("RequiredLevel must be >= 1, got %d", s.RequiredLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill validation failed: %v", errs)
	}
	return nil
}

// LoadSkills reads all skill definitions from *.yaml / *.yml files in dir,
// one skill per file, sorted by file name.
//
// Postcondition: every returned Skill satisfies Validate().
func LoadSkills(dir string) ([]*Skill, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("skills: LoadSkills: %w", err)
	}
	out := make([]*Skill, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("skills: LoadSkills: read %s: %w", path, err)
		}
		var s Skill
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("skills: LoadSkills: parse %s: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("skills: LoadSkills: %s: %w", path, err)
		}
		out = append(out, &s)
	}
	return out, nil
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

// Service tracks learned skills keyed by character ID.
type Service struct {
	classes        *character.ClassRegistry
	classReduction int
	learned        map[string]map[string]bool
}

// NewService creates a skills Service. classes may be nil; class-preferred
// discounts are then never applied.
//
// Precondition: classReduction >= 0.
func NewService(classes *character.ClassRegistry, classReduction int) *Service {
	if classReduction < 0 {
		panic("skills: NewService: classReduction must be >= 0")
	}
	return &Service{
		classes:        classes,
		classReduction: classReduction,
		learned:        make(map[string]map[string]bool),
	}
}

// requiredLevel returns the effective level requirement for c to learn s,
// applying the class-preferred discount when c's class prefers the skill.
// The requirement never drops below 1.
func (svc *Service) requiredLevel(c *character.Character, s *Skill) int {
	required := s.RequiredLevel
	if svc.classes != nil && c.Class != "" {
		if class, ok := svc.classes.Class(c.Class); ok && class.Prefers(s.ID) {
			required -= svc.classReduction
			if required < 1 {
				required = 1
			}
		}
	}
	return required
}

// CanLearn reports whether c meets the (possibly class-discounted) level
// requirement for s.
//
// Precondition: c and s must be non-nil.
func (svc *Service) CanLearn(c *character.Character, s *Skill) bool {
	return c.Level >= svc.requiredLevel(c, s)
}

// Learn records s as learned by c.
//
// Precondition: c and s must be non-nil; s must satisfy s.Validate().
// Postcondition: on success Learned(c) contains s.ID; fails with
// ErrLevelTooLow or ErrAlreadyLearned without mutation.
func (svc *Service) Learn(c *character.Character, s *Skill) error {
	if c == nil || s == nil {
		return errors.New("skills: learn: character and skill must be non-nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if !svc.CanLearn(c, s) {
		return fmt.Errorf("skills: learn %q at level %d (requires %d): %w",
			s.ID, c.Level, svc.requiredLevel(c, s), ErrLevelTooLow)
	}
	if svc.learned[c.ID][s.ID] {
		return fmt.Errorf("skills: learn %q: %w", s.ID, ErrAlreadyLearned)
	}
	if svc.learned[c.ID] == nil {
		svc.learned[c.ID] = make(map[string]bool)
	}
	svc.learned[c.ID][s.ID] = true
	return nil
}

// Learned returns the IDs of all skills c has learned, sorted.
//
// Precondition: c must be non-nil.
func (svc *Service) Learned(c *character.Character) []string {
	ids := make([]string, 0, len(svc.learned[c.ID]))
	for id := range svc.learned[c.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasLearned reports whether c has learned the skill with the given ID.
func (svc *Service) HasLearned(c *character.Character, skillID string) bool {
	return svc.learned[c.ID][skillID]
}
