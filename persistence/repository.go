// Package persistence defines the generic storage collaborator the token
// store is built on. Backends live in their own packages: memory, boltdb,
// mongodb and the cache decorator.
package persistence

import "context"

// Entity is a persistable record with a primary key and a set of indexed
// string fields.
type Entity interface {
	EntityID() string
	// FieldValue returns the value of an indexed field. It reports false when
	// the field is unknown or absent on this entity.
	FieldValue(field string) (string, bool)
}

// FieldID names the primary key in filters. Entities report their
// EntityID under it.
const FieldID = "_id"

// Condition is a single exact-match constraint.
type Condition struct {
	Field string
	Value string
}

// Filter is a conjunction of exact-match conditions. The zero Filter
// matches every entity.
type Filter struct {
	Conditions []Condition
}

// Where starts a filter with one condition.
func Where(field, value string) Filter {
	return Filter{Conditions: []Condition{{Field: field, Value: value}}}
}

// All returns the filter matching every entity.
func All() Filter {
	return Filter{}
}

// And returns a copy of f with one more condition.
func (f Filter) And(field, value string) Filter {
	conds := make([]Condition, 0, len(f.Conditions)+1)
	conds = append(conds, f.Conditions...)
	conds = append(conds, Condition{Field: field, Value: value})
	return Filter{Conditions: conds}
}

// IsEmpty reports whether f has no conditions.
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// ID returns the id when f selects exactly one entity by primary key.
func (f Filter) ID() (string, bool) {
	if len(f.Conditions) != 1 || f.Conditions[0].Field != FieldID {
		return "", false
	}
	return f.Conditions[0].Value, true
}

// Matches reports whether e satisfies every condition. Matching is
// case-sensitive; an absent field never matches.
func (f Filter) Matches(e Entity) bool {
	for _, c := range f.Conditions {
		v, ok := e.FieldValue(c.Field)
		if !ok || v != c.Value {
			return false
		}
	}
	return true
}

// Repository stores entities of one kind. Every call runs in its own
// transaction.
//
// Errors are classified with the errors package: Get reports KindNotFound
// for a missing id and KindCorrupt for an undecodable stored entity; any
// other storage failure is KindUnavailable.
type Repository[T Entity] interface {
	Get(ctx context.Context, id string) (T, error)
	// Query returns the entities matching filter in no particular order.
	Query(ctx context.Context, filter Filter) ([]T, error)
	// Save inserts or replaces the entity with the same id.
	Save(ctx context.Context, entity T) error
	// DeleteWhere removes the matching entities and returns how many were
	// removed.
	DeleteWhere(ctx context.Context, filter Filter) (int64, error)
}
