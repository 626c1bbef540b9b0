// Package achievement records one-time milestones per character.
package achievement

import (
	"sort"

	"github.com/duskvale/rpg/internal/game/character"
)

// Milestone IDs.
const (
	// FirstPurchaseID is earned on a character's first successful shop
	// purchase.
	FirstPurchaseID = "first_purchase"
	// QuestNoviceID is earned when a character completes their first quest.
	QuestNoviceID = "quest_novice"
)

// Service tracks earned achievements keyed by the character's stable ID.
// Each achievement can be earned at most once.
type Service struct {
	earned map[string]map[string]bool
}

// NewService creates an empty achievement Service.
func NewService() *Service {
	return &Service{earned: make(map[string]map[string]bool)}
}

// award grants id to c and reports whether it was newly earned.
func (s *Service) award(c *character.Character, id string) bool {
	if c == nil {
		return false
	}
	if s.earned[c.ID][id] {
		return false
	}
	if s.earned[c.ID] == nil {
		s.earned[c.ID] = make(map[string]bool)
	}
	s.earned[c.ID][id] = true
	return true
}

// RecordPurchase notes a successful shop purchase and reports whether it
// earned FirstPurchaseID.
//
// Precondition: c must be non-nil.
func (s *Service) RecordPurchase(c *character.Character) bool {
	return s.award(c, FirstPurchaseID)
}

// RecordQuestCompletion notes a completed quest and reports whether it
// earned QuestNoviceID.
//
// Precondition: c must be non-nil.
func (s *Service) RecordQuestCompletion(c *character.Character) bool {
	return s.award(c, QuestNoviceID)
}

// Has reports whether c has earned the achievement with the given ID.
func (s *Service) Has(c *character.Character, id string) bool {
	if c == nil {
		return false
	}
	return s.earned[c.ID][id]
}

// Earned returns the IDs of all achievements c has earned, sorted.
func (s *Service) Earned(c *character.Character) []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(s.earned[c.ID]))
	for id := range s.earned[c.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
