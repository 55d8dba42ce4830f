// Package fieldgroup implements an ordered, never-empty list of homogeneous
// entries used for the repeatable parts of a draft.
package fieldgroup

import (
	"strings"

	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// Patch changes one entry of a group
type Patch[T any] interface {
	Apply(entry T) T
}

// Replace is the patch for whole-entry updates, used for string groups
type Replace[T any] struct {
	Value T
}

// Apply implements Patch
func (r Replace[T]) Apply(T) T { return r.Value }

// PatchFunc adapts a function to Patch
type PatchFunc[T any] func(entry T) T

// Apply implements Patch
func (f PatchFunc[T]) Apply(entry T) T { return f(entry) }

// Group is an ordered list of entries that always holds at least one entry.
// Insertion order is display order and serialization order.
type Group[T any] struct {
	entries []T
	empty   T
	isBlank func(T) bool
}

// New creates a group seeded with seed, or with a single empty entry when
// seed has no entries. isBlank decides which entries NonBlank drops.
func New[T any](empty T, isBlank func(T) bool, seed []T) *Group[T] {
	g := &Group[T]{empty: empty, isBlank: isBlank}
	if len(seed) == 0 {
		g.entries = []T{empty}
	} else {
		g.entries = append(make([]T, 0, len(seed)), seed...)
	}
	return g
}

// NewStrings creates a group of free-text entries
func NewStrings(seed []string) *Group[string] {
	return New("", BlankString, seed)
}

// BlankString reports whether s is empty after trimming
func BlankString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Len returns the number of entries, never less than one
func (g *Group[T]) Len() int {
	return len(g.entries)
}

// At returns the entry at index
func (g *Group[T]) At(index int) (T, error) {
	if err := g.check(index); err != nil {
		var zero T
		return zero, err
	}
	return g.entries[index], nil
}

// Entries returns a copy of all entries in order
func (g *Group[T]) Entries() []T {
	return append(make([]T, 0, len(g.entries)), g.entries...)
}

// NonBlank returns a copy of the entries that are not blank, in order
func (g *Group[T]) NonBlank() []T {
	out := make([]T, 0, len(g.entries))
	for _, e := range g.entries {
		if g.isBlank != nil && g.isBlank(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Add appends entry to the end of the group
func (g *Group[T]) Add(entry T) {
	g.entries = append(g.entries, entry)
}

// AddEmpty appends the group's empty entry
func (g *Group[T]) AddEmpty() {
	g.Add(g.empty)
}

// UpdateAt applies patch to the entry at index
func (g *Group[T]) UpdateAt(index int, patch Patch[T]) error {
	if err := g.check(index); err != nil {
		return err
	}
	g.entries[index] = patch.Apply(g.entries[index])
	return nil
}

// SetAt replaces the entry at index
func (g *Group[T]) SetAt(index int, entry T) error {
	return g.UpdateAt(index, Replace[T]{Value: entry})
}

// RemoveAt removes the entry at index. When it is the only entry it is reset
// to the empty value instead, so the group never becomes empty.
func (g *Group[T]) RemoveAt(index int) error {
	if err := g.check(index); err != nil {
		return err
	}
	if len(g.entries) == 1 {
		g.entries[0] = g.empty
		return nil
	}
	g.entries = append(g.entries[:index:index], g.entries[index+1:]...)
	return nil
}

// Reset drops every entry and leaves a single empty one
func (g *Group[T]) Reset() {
	g.entries = []T{g.empty}
}

func (g *Group[T]) check(index int) error {
	if index < 0 || index >= len(g.entries) {
		return apperrors.NewIndexOutOfRangeError(index, len(g.entries))
	}
	return nil
}
