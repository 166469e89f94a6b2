package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/accent-map-mcp/internal/capture"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/record"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// === Capture Session Handlers ===

type sessionArgs struct {
	Session string `json:"session" jsonschema:"required,description=Session id returned by session_create"`
}

// sessionResult is the common reply of the session tools. Fields a tool does
// not produce are omitted.
type sessionResult struct {
	Session   string          `json:"session"`
	State     string          `json:"state"`
	Remaining int             `json:"remaining"`
	Opened    *bool           `json:"opened,omitempty"`
	Saved     *bool           `json:"saved,omitempty"`
	ID        *shape.ID       `json:"id,omitempty"`
	Invalid   []string        `json:"invalid,omitempty"`
	Metadata  *shape.Metadata `json:"metadata,omitempty"`
	Draft     *capture.Draft  `json:"draft,omitempty"`
	Notices   []string        `json:"notices,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// withSession runs fn against a registered session and fills in the common
// fields of its reply.
func (s *Server) withSession(id string, fn func(*capture.Session, *sessionResult) error) (*sessionResult, error) {
	out, notices, err := s.sessions.With(id, func(sess *capture.Session) (interface{}, error) {
		res := &sessionResult{}
		if err := fn(sess, res); err != nil {
			return nil, err
		}
		res.Session = sess.ID()
		res.State = sess.State().String()
		res.Remaining = sess.Remaining()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	res := out.(*sessionResult)
	res.Notices = notices
	return res, nil
}

type sessionCreateArgs struct {
	Width     float64 `json:"width,omitempty" jsonschema:"description=View width in pixels. Defaults to the configured view width"`
	Capacity  int     `json:"capacity,omitempty" jsonschema:"description=Maximum number of saved areas. Defaults to the configured capacity"`
	Tolerance float64 `json:"tolerance,omitempty" jsonschema:"description=Stroke simplification tolerance in view pixels. Negative disables simplification"`
}

type sessionCreateResult struct {
	Session  string        `json:"session"`
	State    string        `json:"state"`
	View     geometry.Size `json:"view"`
	Capacity int           `json:"capacity"`
}

func (s *Server) handleSessionCreate(args json.RawMessage) (interface{}, error) {
	var a sessionCreateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.cfg.ViewWidth
	}

	opts := s.cfg.Capture.Options()
	if a.Capacity != 0 {
		opts.Capacity = a.Capacity
	}
	if a.Tolerance != 0 {
		opts.Tolerance = a.Tolerance
	}

	sess, err := s.sessions.Create(normalize.ViewSize(a.Width), opts)
	if err != nil {
		return nil, err
	}
	return sessionCreateResult{
		Session:  sess.ID(),
		State:    sess.State().String(),
		View:     sess.ViewSize(),
		Capacity: sess.Remaining(),
	}, nil
}

type sessionPointerArgs struct {
	sessionArgs
	Event string           `json:"event" jsonschema:"required,enum=down,enum=move,enum=drag,enum=up,description=Pointer event"`
	X     float64          `json:"x,omitempty" jsonschema:"description=Pointer X in view pixels"`
	Y     float64          `json:"y,omitempty" jsonschema:"description=Pointer Y in view pixels"`
	Path  []geometry.Point `json:"path,omitempty" jsonschema:"description=For move and drag: successive positions applied in order instead of x and y"`
}

func (s *Server) handleSessionPointer(args json.RawMessage) (interface{}, error) {
	var a sessionPointerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p := geometry.Pt(a.X, a.Y)

	return s.withSession(a.Session, func(sess *capture.Session, res *sessionResult) error {
		switch a.Event {
		case "down":
			err := sess.PointerDown(p)
			if errors.Is(err, capture.ErrCapacityReached) {
				// Reported through the capacity notice.
				return nil
			}
			if err != nil {
				return err
			}
		case "move", "drag":
			path := a.Path
			if len(path) == 0 {
				path = []geometry.Point{p}
			}
			for _, q := range path {
				if a.Event == "move" {
					sess.PointerMove(q)
				} else {
					sess.PointerDrag(q)
				}
			}
		case "up":
			res.Opened = boolPtr(sess.PointerUp())
		default:
			return fmt.Errorf("unknown pointer event %q: want down, move, drag or up", a.Event)
		}
		if d, ok := sess.Draft(); ok {
			res.Draft = &d
		}
		return nil
	})
}

type sessionSaveArgs struct {
	sessionArgs
	Form shape.Metadata `json:"form" jsonschema:"required,description=Questionnaire answers"`
}

func (s *Server) handleSessionSave(args json.RawMessage) (interface{}, error) {
	var a sessionSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	return s.withSession(a.Session, func(sess *capture.Session, res *sessionResult) error {
		id, err := sess.Save(a.Form)
		var verr *shape.ValidationError
		if errors.As(err, &verr) {
			res.Saved = boolPtr(false)
			res.Invalid = verr.Validity.Invalid()
			return nil
		}
		if err != nil {
			return err
		}
		res.Saved = boolPtr(true)
		res.ID = &id
		return nil
	})
}

func (s *Server) handleSessionCancel(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.Session, func(sess *capture.Session, _ *sessionResult) error {
		return sess.Cancel()
	})
}

type sessionEditModeArgs struct {
	sessionArgs
	Enabled bool `json:"enabled" jsonschema:"description=True to enter edit mode and false to leave it"`
}

func (s *Server) handleSessionEditMode(args json.RawMessage) (interface{}, error) {
	var a sessionEditModeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.Session, func(sess *capture.Session, _ *sessionResult) error {
		if a.Enabled {
			return sess.EnterEditMode()
		}
		return sess.ExitEditMode()
	})
}

type sessionSelectArgs struct {
	sessionArgs
	ID *int     `json:"id,omitempty" jsonschema:"description=Area id to select"`
	X  *float64 `json:"x,omitempty" jsonschema:"description=Select the topmost area under this X (view pixels)"`
	Y  *float64 `json:"y,omitempty" jsonschema:"description=Select the topmost area under this Y (view pixels)"`
}

func (s *Server) handleSessionSelect(args json.RawMessage) (interface{}, error) {
	var a sessionSelectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if (a.X == nil) != (a.Y == nil) {
		return nil, fmt.Errorf("x and y must be given together")
	}

	return s.withSession(a.Session, func(sess *capture.Session, res *sessionResult) error {
		switch {
		case a.ID != nil:
			if err := sess.Select(shape.ID(*a.ID)); err != nil {
				return err
			}
		case a.X != nil:
			if _, _, err := sess.SelectAt(geometry.Pt(*a.X, *a.Y)); err != nil {
				return err
			}
		default:
			if err := sess.Deselect(); err != nil {
				return err
			}
		}
		if id, ok := sess.Selected(); ok {
			res.ID = &id
		}
		return nil
	})
}

func (s *Server) handleSessionDelete(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.Session, func(sess *capture.Session, res *sessionResult) error {
		id, err := sess.Delete()
		if err != nil {
			return err
		}
		res.ID = &id
		return nil
	})
}

func (s *Server) handleSessionEdit(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.Session, func(sess *capture.Session, res *sessionResult) error {
		md, err := sess.Edit()
		if err != nil {
			return err
		}
		res.Metadata = &md
		return nil
	})
}

type sessionResizeArgs struct {
	sessionArgs
	Width float64 `json:"width" jsonschema:"required,description=New view width in pixels"`
}

func (s *Server) handleSessionResize(args json.RawMessage) (interface{}, error) {
	var a sessionResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.Session, func(sess *capture.Session, _ *sessionResult) error {
		return sess.Resize(normalize.ViewSize(a.Width))
	})
}

type sessionStateResult struct {
	Session   string          `json:"session"`
	State     string          `json:"state"`
	View      geometry.Size   `json:"view"`
	Canonical geometry.Size   `json:"canonical"`
	Shapes    []shape.Shape   `json:"shapes"`
	Remaining int             `json:"remaining"`
	Captured  int             `json:"captured"`
	Selected  *shape.ID       `json:"selected,omitempty"`
	Draft     *capture.Draft  `json:"draft,omitempty"`
	Pending   *shape.Metadata `json:"pending,omitempty"`
}

func (s *Server) handleSessionState(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	out, _, err := s.sessions.With(a.Session, func(sess *capture.Session) (interface{}, error) {
		res := sessionStateResult{
			Session:   sess.ID(),
			State:     sess.State().String(),
			View:      sess.ViewSize(),
			Canonical: sess.CanonicalSize(),
			Shapes:    sess.Shapes(),
			Remaining: sess.Remaining(),
			Captured:  sess.Captured(),
		}
		if id, ok := sess.Selected(); ok {
			res.Selected = &id
		}
		if d, ok := sess.Draft(); ok {
			res.Draft = &d
		}
		if md, ok := sess.Pending(); ok {
			res.Pending = &md
		}
		return res, nil
	})
	return out, err
}

func (s *Server) handleSessionExport(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	out, _, err := s.sessions.With(a.Session, func(sess *capture.Session) (interface{}, error) {
		return sess.Export()
	})
	if err != nil {
		return nil, err
	}
	return out.(*record.Submission), nil
}

type sessionCloseResult struct {
	Session string `json:"session"`
	Closed  bool   `json:"closed"`
}

func (s *Server) handleSessionClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !s.sessions.Close(a.Session) {
		return nil, fmt.Errorf("unknown session: %s", a.Session)
	}
	return sessionCloseResult{Session: a.Session, Closed: true}, nil
}
