package capture

import (
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// PointerDown handles a press at p (view coordinates).
//
//   - Idle: starts a new draft seeded with p and an unused palette colour.
//     Returns ErrCapacityReached (and notifies) if the store is full.
//   - Drawing: appends p, as a press without an intervening drag would.
//   - Edit mode: selects the topmost shape under p, or clears the selection
//     when p hits nothing.
//   - ModalOpen: ErrInvalidTransition.
func (s *Session) PointerDown(p geometry.Point) error {
	switch s.state {
	case Idle:
		if s.store.Full() {
			s.notifyCapacity()
			return ErrCapacityReached
		}
		s.draft = Draft{
			Points: geometry.Polygon{p},
			Color:  shape.PickColor(s.opts.Palette, s.store.UsedColors()),
		}
		s.state = Drawing
		return nil
	case Drawing:
		s.draft.Points = append(s.draft.Points, p)
		return nil
	case EditModeIdle, EditModeSelected:
		_, _, err := s.SelectAt(p)
		return err
	}
	return transitionError("pointer down", s.state)
}

// PointerMove handles pointer motion. While drawing the position is appended
// to the draft; in every other state motion is ignored.
func (s *Session) PointerMove(p geometry.Point) {
	if s.state == Drawing {
		s.draft.Points = append(s.draft.Points, p)
	}
}

// PointerDrag is PointerMove with the button held.
func (s *Session) PointerDrag(p geometry.Point) {
	s.PointerMove(p)
}

// PointerUp finishes the stroke. The draft is closed by returning to its
// first point and simplified.
//
// A stroke that does not enclose an area (empty, a single tap, or points
// along one line that simplification cannot turn into three distinct
// vertices) is discarded silently and the session returns to Idle; this is
// not an error. Otherwise the modal opens for the new polygon and opened is
// true. Outside Drawing the call does nothing.
func (s *Session) PointerUp() (opened bool) {
	if s.state != Drawing {
		return false
	}

	draft := s.draft
	s.draft = Draft{}

	tolerance := s.opts.Tolerance
	if tolerance < 0 {
		tolerance = 0
	}
	poly := geometry.Simplify(draft.Points.Close(), tolerance)
	if poly.Degenerate() {
		s.state = Idle
		return false
	}

	s.pending = &pending{polygon: poly, color: draft.Color}
	s.state = ModalOpen
	return true
}

// Save submits the open modal's questionnaire.
//
// Invalid metadata returns a *shape.ValidationError and leaves the modal open
// with the pending polygon intact. For a new polygon the shape is converted to
// canonical coordinates and committed, returning the session to Idle; for an
// edit only the metadata of the shape is replaced and the session returns to
// EditModeIdle with no selection.
func (s *Session) Save(md shape.Metadata) (shape.ID, error) {
	if s.state != ModalOpen {
		return 0, transitionError("save", s.state)
	}
	if v := md.Validate(); !v.Valid() {
		return 0, &shape.ValidationError{Validity: v}
	}

	p := s.pending
	if p.editing {
		mustStore("save edit", s.store.Update(p.id, md))
		s.pending = nil
		s.state = EditModeIdle
		return p.id, nil
	}

	canonical, err := normalize.ToCanonical(p.polygon, s.view, s.canonical)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	id, err := s.store.Add(shape.Shape{
		Polygon:     canonical,
		StrokeColor: p.color,
		Metadata:    md,
	})
	if errors.Is(err, shape.ErrCapacity) {
		// Pointer-down refuses to start a drawing once full, so this only
		// happens if the store was filled behind the session's back.
		s.notifyCapacity()
		return 0, ErrCapacityReached
	}
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}

	if s.captured < s.store.Cap() {
		s.captured++
	}
	s.pending = nil
	s.state = Idle
	log.Printf("[capture] session %s: committed shape %d (%d/%d)", s.id, id, s.store.Len(), s.store.Cap())

	if s.store.Full() {
		s.notifyCapacity()
	}
	return id, nil
}

// Cancel closes the modal without saving. A new polygon is discarded entirely;
// an edit leaves the shape as it was.
func (s *Session) Cancel() error {
	if s.state != ModalOpen {
		return transitionError("cancel", s.state)
	}
	editing := s.pending.editing
	s.pending = nil
	if editing {
		s.state = EditModeIdle
	} else {
		s.state = Idle
	}
	return nil
}
