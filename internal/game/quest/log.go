package quest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/duskvale/rpg/internal/game/character"
)

// ErrUnknownQuest is returned when an operation names a quest the log has
// never seen.
var ErrUnknownQuest = errors.New("unknown quest")

// ErrUnknownObjective is returned when completing an objective the quest
// does not define.
var ErrUnknownObjective = errors.New("unknown objective")

// ErrAlreadyAccepted is returned when accepting a quest twice.
var ErrAlreadyAccepted = errors.New("quest already accepted")

// ErrNotAccepted is returned when progressing a quest the character has
// not accepted.
var ErrNotAccepted = errors.New("quest not accepted")

type progress struct {
	quest *Quest
	done  map[string]bool
}

func (p *progress) completed() bool {
	return len(p.done) == len(p.quest.Objectives)
}

// Log tracks accepted quests and objective completion, keyed by the
// character's stable ID.
type Log struct {
	active map[string]map[string]*progress
}

// NewLog creates an empty quest Log.
func NewLog() *Log {
	return &Log{active: make(map[string]map[string]*progress)}
}

// Accept registers q as in progress for c.
//
// Precondition: c and q must be non-nil; q must satisfy q.Validate().
// Postcondition: fails with ErrAlreadyAccepted when q is already active or
// completed for c, without mutation.
func (l *Log) Accept(c *character.Character, q *Quest) error {
	if c == nil || q == nil {
		return errors.New("quest: accept: character and quest must be non-nil")
	}
	if err := q.Validate(); err != nil {
		return err
	}
	if _, ok := l.active[c.ID][q.ID]; ok {
		return fmt.Errorf("quest: accept %q: %w", q.ID, ErrAlreadyAccepted)
	}
	if l.active[c.ID] == nil {
		l.active[c.ID] = make(map[string]*progress)
	}
	l.active[c.ID][q.ID] = &progress{quest: q, done: make(map[string]bool)}
	return nil
}

// CompleteObjective marks one objective of an accepted quest as done and
// reports whether the quest is now fully complete. Completing the same
// objective twice is a no-op.
//
// Precondition: c must be non-nil.
func (l *Log) CompleteObjective(c *character.Character, questID, objectiveID string) (bool, error) {
	if c == nil {
		return false, errors.New("quest: complete: character must not be nil")
	}
	p, ok := l.active[c.ID][questID]
	if !ok {
		return false, fmt.Errorf("quest: complete %q: %w", questID, ErrNotAccepted)
	}
	if _, ok := p.quest.Objective(objectiveID); !ok {
		return false, fmt.Errorf("quest: complete %q/%q: %w", questID, objectiveID, ErrUnknownObjective)
	}
	p.done[objectiveID] = true
	return p.completed(), nil
}

// IsCompleted reports whether c has finished every objective of questID.
func (l *Log) IsCompleted(c *character.Character, questID string) bool {
	if c == nil {
		return false
	}
	p, ok := l.active[c.ID][questID]
	return ok && p.completed()
}

// Active returns the quests c has accepted but not finished, sorted by ID.
func (l *Log) Active(c *character.Character) []*Quest {
	return l.filter(c, func(p *progress) bool { return !p.completed() })
}

// Completed returns the quests c has finished, sorted by ID.
func (l *Log) Completed(c *character.Character) []*Quest {
	return l.filter(c, (*progress).completed)
}

func (l *Log) filter(c *character.Character, keep func(*progress) bool) []*Quest {
	if c == nil {
		return nil
	}
	var quests []*Quest
	for _, p := range l.active[c.ID] {
		if keep(p) {
			quests = append(quests, p.quest)
		}
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].ID < quests[j].ID })
	return quests
}
