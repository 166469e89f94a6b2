package capture

import (
	"fmt"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// EnterEditMode switches from Idle to EditModeIdle. It fails with ErrNoShapes
// when nothing has been committed.
func (s *Session) EnterEditMode() error {
	if s.state != Idle {
		return transitionError("enter edit mode", s.state)
	}
	if s.store.Len() == 0 {
		return ErrNoShapes
	}
	s.state = EditModeIdle
	return nil
}

// ExitEditMode returns to Idle, dropping any selection.
func (s *Session) ExitEditMode() error {
	if s.state != EditModeIdle && s.state != EditModeSelected {
		return transitionError("exit edit mode", s.state)
	}
	s.state = Idle
	return nil
}

// Select makes id the single selected shape, replacing any previous selection.
// An id the store does not know is reported as shape.ErrUnknownID.
func (s *Session) Select(id shape.ID) error {
	if s.state != EditModeIdle && s.state != EditModeSelected {
		return transitionError("select", s.state)
	}
	if s.store.IndexOf(id) < 0 {
		return fmt.Errorf("select %d: %w", id, shape.ErrUnknownID)
	}
	s.selected = id
	s.state = EditModeSelected
	return nil
}

// Deselect clears the selection.
func (s *Session) Deselect() error {
	if s.state != EditModeIdle && s.state != EditModeSelected {
		return transitionError("deselect", s.state)
	}
	s.state = EditModeIdle
	return nil
}

// SelectAt selects the topmost shape containing p (view coordinates). Shapes
// committed later are drawn above earlier ones and win ties. When no shape is
// hit the selection is cleared and hit is false.
func (s *Session) SelectAt(p geometry.Point) (id shape.ID, hit bool, err error) {
	if s.state != EditModeIdle && s.state != EditModeSelected {
		return 0, false, transitionError("select", s.state)
	}

	canonical, err := normalize.PointToView(p, s.view, s.canonical)
	if err != nil {
		return 0, false, err
	}

	list := s.store.List()
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Polygon.Contains(canonical) {
			s.selected = list[i].ID
			s.state = EditModeSelected
			return list[i].ID, true, nil
		}
	}
	s.state = EditModeIdle
	return 0, false, nil
}

// Delete removes the selected shape. The session returns to EditModeIdle, or
// leaves edit mode for Idle when no shapes remain.
func (s *Session) Delete() (shape.ID, error) {
	if s.state != EditModeSelected {
		return 0, transitionError("delete", s.state)
	}

	id := s.selected
	mustStore("delete", s.store.Remove(id))
	if s.store.Len() == 0 {
		s.state = Idle
	} else {
		s.state = EditModeIdle
	}
	return id, nil
}

// Edit opens the modal for the selected shape, pre-populated with its current
// metadata, and returns that metadata.
func (s *Session) Edit() (shape.Metadata, error) {
	if s.state != EditModeSelected {
		return shape.Metadata{}, transitionError("edit", s.state)
	}

	sh, ok := s.store.Get(s.selected)
	if !ok {
		mustStore("edit", fmt.Errorf("edit %d: %w", s.selected, shape.ErrUnknownID))
	}
	s.pending = &pending{
		editing:  true,
		id:       sh.ID,
		polygon:  sh.Polygon,
		color:    sh.StrokeColor,
		metadata: sh.Metadata,
	}
	s.state = ModalOpen
	return sh.Metadata.Clone(), nil
}
