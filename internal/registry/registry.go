// Package registry holds the cross-file set of operations and fragments
// gathered during ingestion, and answers fragment lookups during
// validation. It is safe for concurrent writes while ingesting and for
// concurrent reads once Freeze has been called.
package registry

import (
	"sort"
	"sync"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
)

// OperationKey identifies one operation uniquely across the whole scan:
// two operations can share a name (e.g. the same query copy-pasted into
// two files), and both still need to be validated independently.
type OperationKey struct {
	File string
	Name string
	Pos  gql.Position
}

// Conflict records that a fragment name was defined more than once at
// different locations (file+position; the fragment bodies are not
// compared); the later definition wins in the registry but both
// locations are reported, satisfying Invariant 1's "last-writer-wins with a
// reported conflict" requirement (something the Rust original leaves
// unimplemented and silently overwrites instead).
type Conflict struct {
	Name       string
	FirstFile  string
	FirstPos   gql.Position
	SecondFile string
	SecondPos  gql.Position
}

// Registry is the concurrent store built during ingestion and read during
// validation. Ingestion uses Insert*; once Freeze is called no further
// mutation is permitted — validation only reads.
type Registry struct {
	mu          sync.Mutex
	fragments   map[string]*gql.FragmentDef
	operations  map[OperationKey]*gql.OperationDef
	conflicts   []Conflict
	frozen      bool
}

// New returns an empty Registry ready for concurrent ingestion.
func New() *Registry {
	return &Registry{
		fragments:  make(map[string]*gql.FragmentDef),
		operations: make(map[OperationKey]*gql.OperationDef),
	}
}

// InsertOperation adds a parsed operation to the registry. Safe to call
// from multiple ingestion workers concurrently.
func (r *Registry) InsertOperation(op *gql.OperationDef) {
	key := OperationKey{File: op.File, Name: op.Name, Pos: op.Pos}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[key] = op
}

// InsertFragment adds a parsed fragment to the registry, recording a
// Conflict if a fragment with the same name already exists at a different
// file+position (same file+position is a no-op re-insert, not a conflict).
// Only locations are compared: two identical bodies in different files
// still record a Conflict.
func (r *Registry) InsertFragment(frag *gql.FragmentDef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.fragments[frag.Name]; ok && !sameLocation(existing, frag) {
		r.conflicts = append(r.conflicts, Conflict{
			Name:       frag.Name,
			FirstFile:  existing.File,
			FirstPos:   existing.Pos,
			SecondFile: frag.File,
			SecondPos:  frag.Pos,
		})
	}
	r.fragments[frag.Name] = frag
}

func sameLocation(a, b *gql.FragmentDef) bool {
	return a.File == b.File && a.Pos == b.Pos
}

// Freeze marks the registry read-only. Subsequent Insert* calls will still
// mutate the map (no enforcement cost is paid on the read path), but no
// caller in this codebase invokes them after Freeze — it exists so the
// memory-barrier invariant in the concurrency model has a concrete marker.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// LookupFragment returns the fragment with the given name, if any.
func (r *Registry) LookupFragment(name string) (*gql.FragmentDef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fragments[name]
	return f, ok
}

// Operations returns every operation in the registry, sorted by
// (File, Pos.Line, Pos.Column, Name) for deterministic iteration order.
func (r *Registry) Operations() []*gql.OperationDef {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*gql.OperationDef, 0, len(r.operations))
	for _, op := range r.operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Name < b.Name
	})
	return out
}

// Fragments returns every fragment in the registry, sorted by name.
func (r *Registry) Fragments() []*gql.FragmentDef {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*gql.FragmentDef, 0, len(r.fragments))
	for _, f := range r.fragments {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Conflicts returns recorded fragment-name conflicts, sorted by name as
// spec.md's FragmentNameConflict ordering requires.
func (r *Registry) Conflicts() []Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Conflict, len(r.conflicts))
	copy(out, r.conflicts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
