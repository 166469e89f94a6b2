// Package capture implements the interactive drawing and editing state machine
// a respondent uses to outline areas on the canvas.
//
// A Session is an explicit object: every pointer event and modal action is a
// method call on the session it belongs to, so any number of respondents (or
// tests) can run side by side. The session owns its shape store and the
// in-progress draft polygon; the draft is a plain value with no reference to
// whatever renders it.
//
// Pointer positions arrive in view coordinates. Committed shapes are stored in
// the session's canonical space, which is the viewport size the session was
// created with, and converted back for display through normalize.
package capture

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// DefaultTolerance is the simplification tolerance, in view pixels, applied to
// a stroke when it is closed.
const DefaultTolerance = 2.5

// Options configures a Session. The zero value is usable.
type Options struct {
	// Capacity bounds the number of committed shapes. Defaults to shape.MaxShapes.
	Capacity int

	// Tolerance is the Douglas-Peucker tolerance in view pixels.
	// Zero selects DefaultTolerance; a negative value disables simplification.
	Tolerance float64

	// Palette overrides shape.Palette.
	Palette []string

	// OnCapacityReached is called whenever a new drawing is blocked by the
	// capacity limit, and once when the last free slot is filled.
	OnCapacityReached func(*Session)
}

// Draft is a snapshot of the polygon being drawn or awaiting its questionnaire.
type Draft struct {
	Points geometry.Polygon `json:"points"`
	Color  string           `json:"color"`
}

// pending is the subject of an open modal: either a new polygon or an
// existing shape whose metadata is being edited.
type pending struct {
	editing  bool
	id       shape.ID
	polygon  geometry.Polygon
	color    string
	metadata shape.Metadata
}

// Session is one respondent's canvas. It is not safe for concurrent use.
type Session struct {
	id        string
	canonical geometry.Size
	view      geometry.Size
	opts      Options
	store     *shape.Store

	state    State
	draft    Draft
	pending  *pending
	selected shape.ID
	captured int
}

// NewSession starts a session on a canvas of the given view size, which also
// becomes the session's canonical size.
func NewSession(view geometry.Size, opts Options) (*Session, error) {
	if !view.Valid() {
		return nil, fmt.Errorf("new session: %w: %gx%g", normalize.ErrInvalidSize, view.Width, view.Height)
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = DefaultTolerance
	}
	if len(opts.Palette) == 0 {
		opts.Palette = shape.Palette
	}

	return &Session{
		id:        uuid.NewString(),
		canonical: view,
		view:      view,
		opts:      opts,
		store:     shape.NewStore(opts.Capacity),
		state:     Idle,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// CanonicalSize returns the size committed shapes are stored in.
func (s *Session) CanonicalSize() geometry.Size { return s.canonical }

// ViewSize returns the size pointer positions are interpreted in.
func (s *Session) ViewSize() geometry.Size { return s.view }

// Len returns the number of committed shapes.
func (s *Session) Len() int { return s.store.Len() }

// Captured returns how many shapes have been committed in total, capped at the
// store's capacity. Deleting a shape does not lower it.
func (s *Session) Captured() int { return s.captured }

// Full reports whether the capacity limit blocks new drawings.
func (s *Session) Full() bool { return s.store.Full() }

// Remaining returns the number of shapes that can still be added.
func (s *Session) Remaining() int { return s.store.Cap() - s.store.Len() }

// Selected returns the selected shape in EditModeSelected.
func (s *Session) Selected() (shape.ID, bool) {
	return s.selected, s.state == EditModeSelected
}

// Draft returns a copy of the polygon being drawn, or of the new polygon
// awaiting its questionnaire. ok is false in every other state.
func (s *Session) Draft() (Draft, bool) {
	switch {
	case s.state == Drawing:
		return Draft{Points: s.draft.Points.Clone(), Color: s.draft.Color}, true
	case s.state == ModalOpen && !s.pending.editing:
		return Draft{Points: s.pending.polygon.Clone(), Color: s.pending.color}, true
	}
	return Draft{}, false
}

// Pending returns the metadata the open modal is pre-populated with: the
// current metadata when editing, zero for a new shape.
func (s *Session) Pending() (shape.Metadata, bool) {
	if s.state != ModalOpen {
		return shape.Metadata{}, false
	}
	return s.pending.metadata.Clone(), true
}

// Resize changes the view size. Committed shapes keep their canonical
// coordinates; only Shapes and later pointer input use the new size.
func (s *Session) Resize(view geometry.Size) error {
	if !view.Valid() {
		return fmt.Errorf("resize: %w: %gx%g", normalize.ErrInvalidSize, view.Width, view.Height)
	}
	if s.state == Drawing || s.state == ModalOpen {
		return transitionError("resize", s.state)
	}
	s.view = view
	return nil
}

// Shapes returns the committed shapes converted to view coordinates.
func (s *Session) Shapes() []shape.Shape {
	list := s.store.List()
	for i := range list {
		poly, err := normalize.ToView(list[i].Polygon, s.canonical, s.view)
		if err != nil {
			// Both sizes are validated on entry.
			panic(fmt.Sprintf("capture: %v", err))
		}
		list[i].Polygon = poly
	}
	return list
}

// CanonicalShapes returns the committed shapes as stored.
func (s *Session) CanonicalShapes() []shape.Shape {
	return s.store.List()
}

// Export builds the submission payload for the upload collaborator.
func (s *Session) Export() (*record.Submission, error) {
	return record.NewSubmission(s.store.List(), s.canonical)
}

func (s *Session) notifyCapacity() {
	if s.opts.OnCapacityReached != nil {
		s.opts.OnCapacityReached(s)
	}
}

// mustStore treats a store error as a desynchronisation between the session's
// state and its store, which is a programming error.
func mustStore(op string, err error) {
	if err != nil {
		log.Printf("[capture] %s: store out of sync: %v", op, err)
		panic(fmt.Sprintf("capture: %s: %v", op, err))
	}
}
