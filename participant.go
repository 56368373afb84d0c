package tripsplit

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Participant is a member of the trip. It is immutable once loaded and exists
// for the lifetime of a settlement run.
type Participant struct {
	Name          string // unique identifier
	DefaultWeight Weight // used when a split carries no override
	Contact       string // opaque contact info, may be empty
}

// Validate checks the participant record for correctness.
func (p *Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("participant name cannot be empty")
	}
	if !p.DefaultWeight.IsPositive() {
		return fmt.Errorf("participant %q: default weight must be positive, got %s", p.Name, p.DefaultWeight)
	}
	return nil
}

// Participants holds the set of trip participants, indexed by name.
type Participants struct {
	list  []*Participant
	index map[string]*Participant
}

// NewParticipants returns a new empty participant set.
func NewParticipants() *Participants {
	return &Participants{
		list:  make([]*Participant, 0),
		index: make(map[string]*Participant),
	}
}

// Add appends a participant to the set. The name must be unique.
func (ps *Participants) Add(p *Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := ps.index[p.Name]; exists {
		return fmt.Errorf("duplicate participant %q", p.Name)
	}
	ps.list = append(ps.list, p)
	ps.index[p.Name] = p
	slices.SortFunc(ps.list, func(a, b *Participant) int {
		return strings.Compare(a.Name, b.Name)
	})
	return nil
}

func (ps *Participants) Has(name string) bool {
	_, ok := ps.index[name]
	return ok
}

func (ps *Participants) Get(name string) *Participant { return ps.index[name] }

func (ps *Participants) Len() int { return len(ps.list) }

// All returns an iterator over all participants, sorted by name.
func (ps *Participants) All() iter.Seq[*Participant] {
	return func(yield func(*Participant) bool) {
		for _, p := range ps.list {
			if !yield(p) {
				return
			}
		}
	}
}
