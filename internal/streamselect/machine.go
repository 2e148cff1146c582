// Package streamselect implements the two-level stream picker (category, then
// optional type) as a single state machine. Transitions that need data return
// a Request; the caller performs it and feeds the result back. Each Request
// carries a generation and results for anything but the latest one are
// dropped, so a slow response can never overwrite a newer selection.
package streamselect

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"helpdesk-cli/internal/model"
)

type State int

const (
	// StateIdle: no project yet.
	StateIdle State = iota
	StateLoadingParents
	// StateNoParent: categories loaded, none chosen.
	StateNoParent
	// StateReconciling: looking for the category that owns an externally set value.
	StateReconciling
	StateLoadingChildren
	// StateNoChildren: the chosen category has no types and is itself the value.
	StateNoChildren
	// StateAwaitingChild: the chosen category has types, none chosen yet.
	StateAwaitingChild
	StateChildSelected
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingParents:
		return "loading-parents"
	case StateNoParent:
		return "no-parent"
	case StateReconciling:
		return "reconciling"
	case StateLoadingChildren:
		return "loading-children"
	case StateNoChildren:
		return "no-children"
	case StateAwaitingChild:
		return "awaiting-child"
	case StateChildSelected:
		return "child-selected"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrDisabled      = errors.New("stream selector is disabled")
	ErrNotReady      = errors.New("streams are not loaded yet")
	ErrUnknownStream = errors.New("unknown stream")
)

type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestParents
	RequestChildren
)

// Request asks the caller to fetch parents of ProjectID or children of ParentID.
type Request struct {
	Kind      RequestKind
	Gen       uint64
	ProjectID string
	ParentID  string
}

func (r Request) Pending() bool { return r.Kind != RequestNone }

type Options struct {
	// OnValueChange receives every change of the effective stream id ("" when cleared).
	OnValueChange func(streamID string)
	Disabled      bool
	Required      bool
}

// lastGen numbers requests across all machines, so a result can only ever
// match the machine that issued it.
var lastGen atomic.Uint64

// Machine is not safe for concurrent use; drive it from one goroutine.
type Machine struct {
	opts  Options
	state State
	gen   uint64

	projectID     string
	parents       []model.Stream
	parentsLoaded bool

	parentID       string
	children       []model.Stream
	childrenLoaded bool
	childID        string

	// value is the externally known stream id: the last one set through
	// SetValue or emitted through OnValueChange.
	value string
	probe int
	err   string
	// quiet holds back OnValueChange for the children reply that completes
	// a SetValue reconciliation.
	quiet bool
}

func New(opts Options) *Machine {
	return &Machine{opts: opts, probe: -1}
}

func (m *Machine) State() State            { return m.state }
func (m *Machine) ProjectID() string       { return m.projectID }
func (m *Machine) Parents() []model.Stream { return m.parents }
func (m *Machine) ParentID() string        { return m.parentID }
func (m *Machine) ChildID() string         { return m.childID }
func (m *Machine) Err() string             { return m.err }
func (m *Machine) Disabled() bool          { return m.opts.Disabled }

func (m *Machine) SetDisabled(v bool) { m.opts.Disabled = v }

// Children returns the types of the selected category once they are known.
func (m *Machine) Children() []model.Stream {
	if !m.childrenLoaded {
		return nil
	}
	return m.children
}

// ShowChildSelect reports whether a second (type) select should be offered.
func (m *Machine) ShowChildSelect() bool {
	return m.parentID != "" && m.childrenLoaded && len(m.children) > 0
}

// Info is the informational line shown instead of the type select.
func (m *Machine) Info() string {
	if m.state == StateNoChildren {
		return "This category has no types; it is used directly."
	}
	return ""
}

// Value is the effective stream id: the chosen type, or the chosen category
// when it has no types.
func (m *Machine) Value() string {
	if m.childID != "" {
		return m.childID
	}
	if m.parentID != "" && m.childrenLoaded && len(m.children) == 0 {
		return m.parentID
	}
	return ""
}

func (m *Machine) Validate() error {
	if m.opts.Required && m.Value() == "" {
		return model.FieldErrors{"streamId": "required"}
	}
	return nil
}

func (m *Machine) emit(v string) {
	if v == m.value {
		return
	}
	m.value = v
	if m.opts.OnValueChange != nil {
		m.opts.OnValueChange(v)
	}
}

func (m *Machine) clearSelection() {
	m.parentID = ""
	m.childID = ""
	m.children = nil
	m.childrenLoaded = false
	m.probe = -1
	m.quiet = false
}

func (m *Machine) restState() State {
	if m.parentsLoaded {
		return StateNoParent
	}
	if m.projectID == "" {
		return StateIdle
	}
	return StateLoadingParents
}

// settle records v as the effective value, notifying unless quiet.
func (m *Machine) settle(v string, quiet bool) {
	if quiet {
		m.value = v
		return
	}
	m.emit(v)
}

func (m *Machine) bump() { m.gen = lastGen.Add(1) }

func (m *Machine) next(r Request) Request {
	m.bump()
	r.Gen = m.gen
	return r
}

// SetProject scopes the selector to a project and requests its categories.
func (m *Machine) SetProject(projectID string) Request {
	projectID = strings.TrimSpace(projectID)
	if projectID == m.projectID && m.state != StateError && m.state != StateIdle {
		return Request{}
	}
	hadSelection := m.parentID != ""
	m.projectID = projectID
	m.parents = nil
	m.parentsLoaded = false
	m.clearSelection()
	m.err = ""
	if hadSelection {
		m.emit("")
	}
	if projectID == "" {
		m.bump()
		m.state = StateIdle
		return Request{}
	}
	m.state = StateLoadingParents
	return m.next(Request{Kind: RequestParents, ProjectID: projectID})
}

// Reload retries whatever failed to load (or refreshes the categories).
func (m *Machine) Reload() Request {
	switch {
	case m.projectID == "":
		return Request{}
	case !m.parentsLoaded:
		m.err = ""
		m.state = StateLoadingParents
		return m.next(Request{Kind: RequestParents, ProjectID: m.projectID})
	case m.parentID != "" && !m.childrenLoaded:
		m.err = ""
		m.state = StateLoadingChildren
		return m.next(Request{Kind: RequestChildren, ParentID: m.parentID})
	}
	return Request{}
}

func (m *Machine) ParentsLoaded(gen uint64, projectID string, streams []model.Stream, err error) Request {
	if gen != m.gen || projectID != m.projectID || m.state != StateLoadingParents {
		return Request{}
	}
	if err != nil {
		m.state = StateError
		m.err = "Failed to load stream categories: " + err.Error()
		return Request{}
	}
	m.parents = streams
	m.parentsLoaded = true
	m.state = StateNoParent
	if m.value != "" {
		return m.reconcile()
	}
	return Request{}
}

// reconcile finds the selection matching m.value: a category directly, or
// the first category (in list order) whose types contain it.
func (m *Machine) reconcile() Request {
	v := m.value
	if indexOf(m.parents, v) >= 0 {
		m.parentID = v
		m.quiet = true
		m.state = StateLoadingChildren
		return m.next(Request{Kind: RequestChildren, ParentID: v})
	}
	if len(m.parents) == 0 {
		return Request{}
	}
	m.probe = 0
	m.state = StateReconciling
	return m.next(Request{Kind: RequestChildren, ParentID: m.parents[0].ID})
}

func (m *Machine) ChildrenLoaded(gen uint64, parentID string, streams []model.Stream, err error) Request {
	if gen != m.gen {
		return Request{}
	}
	switch m.state {
	case StateReconciling:
		return m.probeLoaded(parentID, streams, err)
	case StateLoadingChildren:
	default:
		return Request{}
	}
	if parentID != m.parentID {
		return Request{}
	}
	if err != nil {
		m.state = StateError
		m.err = "Failed to load stream types: " + err.Error()
		return Request{}
	}
	quiet := m.quiet
	m.quiet = false
	m.children = streams
	m.childrenLoaded = true
	if len(streams) == 0 {
		m.state = StateNoChildren
		m.settle(m.parentID, quiet)
		return Request{}
	}
	m.state = StateAwaitingChild
	m.settle("", quiet)
	return Request{}
}

func (m *Machine) probeLoaded(parentID string, streams []model.Stream, err error) Request {
	if m.probe < 0 || m.probe >= len(m.parents) || m.parents[m.probe].ID != parentID {
		return Request{}
	}
	if err != nil {
		m.probe = -1
		m.state = StateError
		m.err = "Failed to load stream types: " + err.Error()
		return Request{}
	}
	if indexOf(streams, m.value) >= 0 {
		m.probe = -1
		m.parentID = parentID
		m.children = streams
		m.childrenLoaded = true
		m.childID = m.value
		m.state = StateChildSelected
		return Request{}
	}
	m.probe++
	if m.probe >= len(m.parents) {
		// No category owns the value; leave it unselected.
		m.probe = -1
		m.state = StateNoParent
		return Request{}
	}
	return m.next(Request{Kind: RequestChildren, ParentID: m.parents[m.probe].ID})
}

// SelectParent chooses a category ("" clears it) and requests its types.
func (m *Machine) SelectParent(id string) (Request, error) {
	if m.opts.Disabled {
		return Request{}, ErrDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		m.ClearParent()
		return Request{}, nil
	}
	if !m.parentsLoaded {
		return Request{}, ErrNotReady
	}
	if indexOf(m.parents, id) < 0 {
		return Request{}, fmt.Errorf("%w: category %s", ErrUnknownStream, id)
	}
	if id == m.parentID && m.childrenLoaded {
		return Request{}, nil
	}
	m.clearSelection()
	m.parentID = id
	m.err = ""
	m.state = StateLoadingChildren
	return m.next(Request{Kind: RequestChildren, ParentID: id}), nil
}

// SelectChild chooses a type of the selected category ("" clears it).
func (m *Machine) SelectChild(id string) error {
	if m.opts.Disabled {
		return ErrDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		m.ClearChild()
		return nil
	}
	if m.parentID == "" || !m.childrenLoaded {
		return ErrNotReady
	}
	if indexOf(m.children, id) < 0 {
		return fmt.Errorf("%w: type %s", ErrUnknownStream, id)
	}
	m.childID = id
	m.err = ""
	m.state = StateChildSelected
	m.emit(id)
	return nil
}

func (m *Machine) ClearChild() {
	if m.childID == "" {
		return
	}
	m.childID = ""
	if m.childrenLoaded && len(m.children) == 0 {
		m.state = StateNoChildren
		m.emit(m.parentID)
		return
	}
	m.state = StateAwaitingChild
	m.emit("")
}

func (m *Machine) ClearParent() {
	if !m.parentsLoaded {
		// Nothing can be chosen yet. Only a value still waiting to be
		// reconciled is dropped; the categories request stays current.
		m.emit("")
		return
	}
	m.clearSelection()
	m.err = ""
	// Invalidate any in-flight children request.
	m.bump()
	m.state = m.restState()
	m.emit("")
}

// SetValue reconciles the selection with an externally provided stream id,
// e.g. when editing an existing ticket. Neither SetValue nor the loads it
// triggers call OnValueChange.
func (m *Machine) SetValue(v string) Request {
	v = strings.TrimSpace(v)
	if v == m.Value() && v == m.value {
		return Request{}
	}
	m.value = v
	m.clearSelection()
	m.err = ""
	if !m.parentsLoaded {
		// Reconciled once the categories arrive.
		return Request{}
	}
	m.bump()
	m.state = StateNoParent
	if v == "" {
		return Request{}
	}
	return m.reconcile()
}

// Result is the outcome of performing a Request.
type Result struct {
	Req     Request
	Streams []model.Stream
	Err     error
}

// Apply feeds a Result back into the machine.
func (m *Machine) Apply(res Result) Request {
	switch res.Req.Kind {
	case RequestParents:
		return m.ParentsLoaded(res.Req.Gen, res.Req.ProjectID, res.Streams, res.Err)
	case RequestChildren:
		return m.ChildrenLoaded(res.Req.Gen, res.Req.ParentID, res.Streams, res.Err)
	}
	return Request{}
}

func indexOf(streams []model.Stream, id string) int {
	if id == "" {
		return -1
	}
	for i, s := range streams {
		if s.ID == id {
			return i
		}
	}
	return -1
}
