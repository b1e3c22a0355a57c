// Package typestore implements component A: a set of type variables
// keyed by external identifiers (registers, anonymous slots), each
// bound to an expression constraint, unified on every addition and
// checked for recursion.
//
// Grounded on the two-index (key->constraint, placeholder->dependents)
// unify-on-add algorithm of the original Dauphin type store.
package typestore

import (
	"fmt"

	"vecl/internal/complexpath"
	"vecl/internal/errors"
)

// Key identifies a type variable: a register number or an anonymous
// placeholder slot allocated by the generation context.
type Key int

// ConstraintKind discriminates the three shapes an ExprConstraint can
// take: a primitive base, a vector wrapping another constraint, or a
// placeholder pointing at another key.
type ConstraintKind int

const (
	CBase ConstraintKind = iota
	CVector
	CPlaceholder
)

// ExprConstraint is the expression-constraint language of the type
// store: primitive base, vector-of-constraint, or placeholder.
type ExprConstraint struct {
	Kind        ConstraintKind
	Base        complexpath.BaseType
	Elem        *ExprConstraint // valid when Kind == CVector
	Placeholder Key             // valid when Kind == CPlaceholder
}

func Base(b complexpath.BaseType) ExprConstraint { return ExprConstraint{Kind: CBase, Base: b} }
func Vector(e ExprConstraint) ExprConstraint     { return ExprConstraint{Kind: CVector, Elem: &e} }
func Placeholder(k Key) ExprConstraint           { return ExprConstraint{Kind: CPlaceholder, Placeholder: k} }

// mentions reports whether the constraint graph rooted at c, viewed
// through the store's current bindings, ever reaches key p -- used by
// the recursion check before binding a placeholder.
func (s *Store) mentions(c ExprConstraint, p Key, visited map[Key]bool) bool {
	switch c.Kind {
	case CBase:
		return false
	case CVector:
		return s.mentions(*c.Elem, p, visited)
	case CPlaceholder:
		if c.Placeholder == p {
			return true
		}
		if visited[c.Placeholder] {
			return false
		}
		visited[c.Placeholder] = true
		if bound, ok := s.bindings[c.Placeholder]; ok {
			return s.mentions(bound, p, visited)
		}
		return false
	}
	return false
}

// Store holds the bindings and the reverse placeholder-dependency
// index.
type Store struct {
	bindings map[Key]ExprConstraint
	// dependents[p] is the set of keys whose current binding directly
	// references placeholder p, so that when p resolves we know whom
	// to walk and re-substitute.
	dependents map[Key]map[Key]bool
}

func New() *Store {
	return &Store{
		bindings:   map[Key]ExprConstraint{},
		dependents: map[Key]map[Key]bool{},
	}
}

// Add unifies constraint c into key k's binding, or records it fresh.
// Returns an error if unification is inconsistent or would create a
// recursive type.
func (s *Store) Add(k Key, c ExprConstraint) error {
	// Step 1: if c is itself a bound placeholder, substitute through.
	c = s.resolveTop(c)

	existing, has := s.bindings[k]
	if !has {
		return s.bind(k, c)
	}
	unified, err := s.unify(k, existing, c)
	if err != nil {
		return err
	}
	return s.rebind(k, unified)
}

// resolveTop follows a placeholder constraint to its bound value, if
// any, one level at a time (repeated so chains collapse).
func (s *Store) resolveTop(c ExprConstraint) ExprConstraint {
	for c.Kind == CPlaceholder {
		bound, ok := s.bindings[c.Placeholder]
		if !ok {
			return c
		}
		c = bound
	}
	return c
}

// unify combines an existing and a new constraint for the same key:
// equal bases succeed with no action; vector-vs-vector recurses;
// placeholder-vs-anything binds the placeholder.
func (s *Store) unify(k Key, a, b ExprConstraint) (ExprConstraint, error) {
	if a.Kind == CPlaceholder && b.Kind == CPlaceholder && a.Placeholder == b.Placeholder {
		return a, nil
	}
	if a.Kind == CPlaceholder {
		if err := s.Add(a.Placeholder, b); err != nil {
			return ExprConstraint{}, err
		}
		return b, nil
	}
	if b.Kind == CPlaceholder {
		if err := s.Add(b.Placeholder, a); err != nil {
			return ExprConstraint{}, err
		}
		return a, nil
	}
	if a.Kind == CBase && b.Kind == CBase {
		if a.Base != b.Base {
			return ExprConstraint{}, errors.NewTypeError(
				fmt.Sprintf("inconsistent base types for key %d: %s vs %s", k, a.Base, b.Base))
		}
		return a, nil
	}
	if a.Kind == CVector && b.Kind == CVector {
		elem, err := s.unify(k, *a.Elem, *b.Elem)
		if err != nil {
			return ExprConstraint{}, err
		}
		return Vector(elem), nil
	}
	return ExprConstraint{}, errors.NewTypeError(
		fmt.Sprintf("inconsistent constraint shapes for key %d", k))
}

// bind records a fresh binding, checking recursion first when the
// constraint (or something it reaches) is a placeholder that would
// resolve back to k.
func (s *Store) bind(k Key, c ExprConstraint) error {
	if err := s.checkRecursion(k, c); err != nil {
		return err
	}
	s.bindings[k] = c
	s.indexDependents(k, c)
	return nil
}

func (s *Store) rebind(k Key, c ExprConstraint) error {
	if err := s.checkRecursion(k, c); err != nil {
		return err
	}
	s.bindings[k] = c
	s.indexDependents(k, c)
	return s.propagate(k)
}

// checkRecursion rejects binding k := c when c mentions k directly or
// transitively via the dependent index.
func (s *Store) checkRecursion(k Key, c ExprConstraint) error {
	if s.mentions(c, k, map[Key]bool{}) {
		return errors.NewTypeError(fmt.Sprintf("recursive type at key %d", k))
	}
	return nil
}

// indexDependents walks c and, for every placeholder it directly
// names, records that k depends on it.
func (s *Store) indexDependents(k Key, c ExprConstraint) {
	switch c.Kind {
	case CPlaceholder:
		if s.dependents[c.Placeholder] == nil {
			s.dependents[c.Placeholder] = map[Key]bool{}
		}
		s.dependents[c.Placeholder][k] = true
	case CVector:
		s.indexDependents(k, *c.Elem)
	}
}

// propagate walks k's dependent set and re-adds their bindings so the
// resolution flows through, per "when a placeholder gains a binding,
// walk its dependent set and substitute".
func (s *Store) propagate(k Key) error {
	for dep := range s.dependents[k] {
		bound := s.bindings[dep]
		if err := s.rebind(dep, bound); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current resolved expression type for k, with
// placeholders remaining unresolved only when no information ties
// them down.
func (s *Store) Get(k Key) ExprConstraint {
	c, ok := s.bindings[k]
	if !ok {
		return Placeholder(k)
	}
	return s.resolveDeep(c, map[Key]bool{})
}

func (s *Store) resolveDeep(c ExprConstraint, visiting map[Key]bool) ExprConstraint {
	switch c.Kind {
	case CVector:
		elem := s.resolveDeep(*c.Elem, visiting)
		return Vector(elem)
	case CPlaceholder:
		if visiting[c.Placeholder] {
			return c
		}
		bound, ok := s.bindings[c.Placeholder]
		if !ok {
			return c
		}
		visiting[c.Placeholder] = true
		return s.resolveDeep(bound, visiting)
	default:
		return c
	}
}
