package shape

import (
	"errors"
	"fmt"
)

// MaxShapes is the number of areas one respondent may draw.
const MaxShapes = 8

var (
	// ErrCapacity is returned by Add once the store holds Cap() shapes.
	ErrCapacity = errors.New("shape store is full")

	// ErrUnknownID means the caller referenced a shape the store never issued
	// or already removed. It indicates the caller's view of the store is out of
	// sync and should not be ignored.
	ErrUnknownID = errors.New("unknown shape id")

	// ErrDegenerate rejects polygons that enclose no area.
	ErrDegenerate = errors.New("degenerate polygon")
)

// Store is the ordered, capacity-bounded collection of one session's shapes.
//
// IDs are issued sequentially from zero and never reused, so until the first
// deletion a shape's ID equals its position. After a deletion the remaining
// shapes close ranks but keep their IDs.
//
// A Store is owned by a single session and is not safe for concurrent use.
// List and Get return copies; the stored shapes cannot be mutated through them.
type Store struct {
	shapes   []Shape
	nextID   ID
	capacity int
}

// NewStore creates an empty store. A non-positive capacity selects MaxShapes.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = MaxShapes
	}
	return &Store{
		shapes:   make([]Shape, 0, capacity),
		capacity: capacity,
	}
}

// Add commits a shape and returns its new ID. The ID field of s is ignored.
//
// Returns:
//   - ErrCapacity if the store is full; the contents are unchanged.
//   - ErrDegenerate if the polygon encloses no area.
//   - *ValidationError if the metadata is incomplete.
func (st *Store) Add(s Shape) (ID, error) {
	if st.Full() {
		return 0, ErrCapacity
	}
	if s.Polygon.Degenerate() {
		return 0, ErrDegenerate
	}
	if v := s.Metadata.Validate(); !v.Valid() {
		return 0, &ValidationError{Validity: v}
	}

	s = s.Clone()
	s.ID = st.nextID
	st.nextID++
	st.shapes = append(st.shapes, s)
	return s.ID, nil
}

// Update replaces the metadata of shape id, leaving its ID, polygon and
// colour untouched.
func (st *Store) Update(id ID, md Metadata) error {
	i := st.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("update shape %d: %w", id, ErrUnknownID)
	}
	if v := md.Validate(); !v.Valid() {
		return &ValidationError{Validity: v}
	}
	st.shapes[i].Metadata = md.Clone()
	return nil
}

// Remove deletes shape id. Later shapes move up one position.
func (st *Store) Remove(id ID) error {
	i := st.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("remove shape %d: %w", id, ErrUnknownID)
	}
	st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
	return nil
}

// Get returns a copy of shape id.
func (st *Store) Get(id ID) (Shape, bool) {
	i := st.IndexOf(id)
	if i < 0 {
		return Shape{}, false
	}
	return st.shapes[i].Clone(), true
}

// IndexOf returns the current position of shape id, or -1.
func (st *Store) IndexOf(id ID) int {
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns copies of all shapes in insertion order.
func (st *Store) List() []Shape {
	out := make([]Shape, len(st.shapes))
	for i, s := range st.shapes {
		out[i] = s.Clone()
	}
	return out
}

// UsedColors returns the stroke colours of the stored shapes.
func (st *Store) UsedColors() []string {
	out := make([]string, len(st.shapes))
	for i, s := range st.shapes {
		out[i] = s.StrokeColor
	}
	return out
}

// Len returns the number of stored shapes.
func (st *Store) Len() int { return len(st.shapes) }

// Cap returns the maximum number of shapes.
func (st *Store) Cap() int { return st.capacity }

// Full reports whether Add would be rejected with ErrCapacity.
func (st *Store) Full() bool { return len(st.shapes) >= st.capacity }
