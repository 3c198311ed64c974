package verdict

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Vault holds a hot-reloadable set of named rules over subjects of type S.
//
// Readers never block: every read works on an immutable snapshot, and Mutate
// publishes a new snapshot atomically. Changes made by one call to Mutate become
// visible to readers all at once, or not at all.
type Vault[S any] struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot[S]]
}

type snapshot[S any] struct {
	rules      map[string]Expr[S]
	ids        []string // sorted
	lastUpdate time.Time
}

type mutationOp int

const (
	noOp mutationOp = iota
	addOp
	updateOp
	deleteOp
	timeOp
)

// Mutation is a single change applied by Vault.Mutate.
// Create mutations with Add, Update, Delete and LastUpdate.
type Mutation[S any] struct {
	op   mutationOp
	id   string
	rule Expr[S]
	t    time.Time
}

// Add adds a rule with a new id. Adding a nil rule is a no-op.
func Add[S any](id string, e Expr[S]) Mutation[S] {
	if e == nil {
		return Mutation[S]{op: noOp}
	}
	return Mutation[S]{op: addOp, id: id, rule: e}
}

// Update replaces the rule with the id. Updating to a nil rule is a no-op.
func Update[S any](id string, e Expr[S]) Mutation[S] {
	if e == nil {
		return Mutation[S]{op: noOp}
	}
	return Mutation[S]{op: updateOp, id: id, rule: e}
}

// Delete removes the rule with the id.
func Delete[S any](id string) Mutation[S] {
	return Mutation[S]{op: deleteOp, id: id}
}

// LastUpdate sets the time reported by Vault.LastUpdate.
// Without it, Mutate stamps the snapshot with the current time.
func LastUpdate[S any](t time.Time) Mutation[S] {
	return Mutation[S]{op: timeOp, t: t}
}

// NewVault returns a vault holding the rules.
func NewVault[S any](rules map[string]Expr[S]) (*Vault[S], error) {
	v := &Vault[S]{}
	v.snap.Store(&snapshot[S]{rules: map[string]Expr[S]{}})
	muts := make([]Mutation[S], 0, len(rules))
	for id, e := range rules {
		if e == nil {
			return nil, fmt.Errorf("rule %s is nil", id)
		}
		muts = append(muts, Add(id, e))
	}
	if err := v.Mutate(muts...); err != nil {
		return nil, err
	}
	return v, nil
}

// Mutate applies the mutations in order. If any mutation fails, none are applied.
func (v *Vault[S]) Mutate(mutations ...Mutation[S]) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	old := v.snap.Load()
	next := &snapshot[S]{
		rules:      maps.Clone(old.rules),
		lastUpdate: time.Now(),
	}
	for _, m := range mutations {
		switch m.op {
		case noOp:
		case addOp:
			if m.id == "" {
				return fmt.Errorf("adding rule: empty id")
			}
			if _, ok := next.rules[m.id]; ok {
				return fmt.Errorf("adding rule %s: already exists", m.id)
			}
			next.rules[m.id] = m.rule
		case updateOp:
			if _, ok := next.rules[m.id]; !ok {
				return fmt.Errorf("updating rule %s: not found", m.id)
			}
			next.rules[m.id] = m.rule
		case deleteOp:
			if _, ok := next.rules[m.id]; !ok {
				return fmt.Errorf("deleting rule %s: not found", m.id)
			}
			delete(next.rules, m.id)
		case timeOp:
			next.lastUpdate = m.t
		}
	}
	next.ids = slices.Sorted(maps.Keys(next.rules))
	v.snap.Store(next)
	return nil
}

// Rule returns the rule with the id.
func (v *Vault[S]) Rule(id string) (Expr[S], bool) {
	e, ok := v.snap.Load().rules[id]
	return e, ok
}

// IDs returns the ids of the rules, sorted.
func (v *Vault[S]) IDs() []string {
	return slices.Clone(v.snap.Load().ids)
}

// Len returns the number of rules.
func (v *Vault[S]) Len() int {
	return len(v.snap.Load().ids)
}

// LastUpdate returns the time of the last successful Mutate.
func (v *Vault[S]) LastUpdate() time.Time {
	return v.snap.Load().lastUpdate
}

// Evaluate evaluates every rule against the subject, using one snapshot of the vault.
func (v *Vault[S]) Evaluate(s S) map[string]bool {
	snap := v.snap.Load()
	out := make(map[string]bool, len(snap.rules))
	for id, e := range snap.rules {
		out[id] = Evaluate(e, s)
	}
	return out
}

// Explain explains every rule against the subject, using one snapshot of the vault.
func (v *Vault[S]) Explain(s S) map[string]*Result {
	snap := v.snap.Load()
	out := make(map[string]*Result, len(snap.rules))
	for id, e := range snap.rules {
		out[id] = Explain(e, s)
	}
	return out
}
