package moon

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/multierr"

	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/solver/flex"
	"github.com/gogpu/moon/text"
)

// FrameReport summarizes one Update.
type FrameReport struct {
	Frame uint64

	NodesSynced     int
	SolverWrites    int
	LayoutRoots     int
	StackedNodes    int
	GeometryUpdates int
	TransformWrites int
	ClipWrites      int
	TextMeasures    int
	TextRetries     int

	// Err aggregates recoverable errors of the frame.
	Err error
}

// Errors returns the recoverable errors of the frame one by one.
func (r FrameReport) Errors() []error {
	return multierr.Errors(r.Err)
}

// Engine lays out a Scene, derives its geometry, stacking and clipping
// and composes layout into node transforms. It owns its solver.
//
// An Engine drives a single Scene and is not safe for concurrent use.
type Engine struct {
	cfg      Config
	table    *NodeTable
	pipeline *text.Pipeline
	stacks   map[TargetID]*UiStack
	scratch  []solver.NodeID
	frame    uint64
}

// NewEngine creates an engine. Without WithSolver it lays out with the
// reference flex solver.
func NewEngine(opts ...EngineOption) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	tree := o.solver
	if tree == nil {
		tree = flex.New(flex.WithRounding(o.config.Rounding))
	}
	fonts := o.fonts
	if fonts == nil {
		fonts = text.NewFontSet()
	}
	return &Engine{
		cfg:      o.config,
		table:    NewNodeTable(tree),
		pipeline: text.NewPipeline(fonts, o.config.TextCacheSize),
		stacks:   make(map[TargetID]*UiStack),
	}
}

// Config returns the engine settings.
func (e *Engine) Config() Config { return e.cfg }

// NodeTable returns the node-to-solver mapping.
func (e *Engine) NodeTable() *NodeTable { return e.table }

// Pipeline returns the text pipeline used for text content.
func (e *Engine) Pipeline() *text.Pipeline { return e.pipeline }

// Stack returns the stack built for target in the last frame.
func (e *Engine) Stack(target TargetID) (*UiStack, bool) {
	st, ok := e.stacks[target]
	return st, ok
}

// Update runs one frame over s: target refresh, stacking, text
// measurement and layout sync, layout, geometry and transforms, clipping.
// ctx is checked between phases.
//
// A *FatalError aborts the frame after the failing phase. Recoverable
// errors are collected in the report.
func (e *Engine) Update(ctx context.Context, s *Scene) (rep FrameReport, err error) {
	e.frame++
	rep.Frame = e.frame
	writes := e.table.Writes()
	defer func() {
		rep.SolverWrites = e.table.Writes() - writes
	}()

	refreshTargets(s)
	e.buildStacks(s, &rep)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	roots := e.layoutRoots(s)
	if err := e.measureText(s, &rep); err != nil {
		return rep, err
	}
	e.syncLayout(s, roots, &rep)
	if err := e.computeLayouts(s, roots, &rep); err != nil {
		return rep, err
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	e.deriveGeometry(s, roots, &rep)
	e.propagateTransforms(s)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	e.propagateClips(s, roots, &rep)

	Logger().Debug("moon: frame",
		"frame", rep.Frame,
		"synced", rep.NodesSynced,
		"stacked", rep.StackedNodes,
		"clips", rep.ClipWrites,
		"errors", len(rep.Errors()))
	return rep, nil
}

// layoutRoot is a stack root together with the target it is laid out
// for.
type layoutRoot struct {
	id    NodeID
	scale float64
	size  Vec2
}

// layoutRoots returns every stack root once. A root visible in several
// targets is laid out for the first of them.
func (e *Engine) layoutRoots(s *Scene) []layoutRoot {
	var (
		roots []layoutRoot
		seen  = make(map[NodeID]bool)
	)
	for _, tid := range s.targetOrder() {
		st, ok := e.stacks[tid]
		if !ok {
			continue
		}
		info := s.targets[tid].info
		for _, id := range st.Roots {
			if seen[id] {
				continue
			}
			seen[id] = true
			roots = append(roots, layoutRoot{id: id, scale: info.ScaleFactor, size: info.PhysicalSize})
		}
	}
	return roots
}

// syncLayout pushes changed nodes under roots into the solver, then
// applies the scene's removal queues.
func (e *Engine) syncLayout(s *Scene, roots []layoutRoot, rep *FrameReport) {
	ls := layoutSync{scene: s, table: e.table, scratch: e.scratch[:0]}
	for _, r := range roots {
		ls.visit(r.id, r.scale)
	}
	e.scratch = ls.scratch
	rep.NodesSynced = ls.synced

	children, despawned := s.drainRemovals()
	for _, id := range children {
		if n := s.node(id); n != nil && len(n.children) == 0 {
			e.table.RemoveChildren(id)
		}
	}
	for _, id := range despawned {
		if s.node(id) == nil {
			e.table.Remove(id)
		}
	}
}

// measurePass dispatches solver measurement to node measures and collects
// their failures.
type measurePass struct {
	scene  *Scene
	failed map[NodeID]error
	fatal  *FatalError
}

func (p *measurePass) measure(known solver.Size[solver.Maybe], avail solver.Size[solver.AvailableSpace], _ solver.NodeID, ctx any, style *solver.Style) solver.Size[float64] {
	mc, ok := ctx.(*measureContext)
	// After a fatal error the frame is discarded; remaining sizes are unused.
	if !ok || p.fatal != nil {
		return solver.Size[float64]{}
	}
	args := MeasureArgs{Known: known, Avail: avail}
	if needsBuffer(known.Height, avail.Width) {
		args.Buffer = p.scene.buffers.Get(mc.node)
	}
	v, err := mc.measure.Measure(args, style)
	if err != nil {
		if errors.Is(err, ErrContentCorrupted) {
			p.fatal = &FatalError{Phase: "layout", Node: mc.node, Err: err}
		} else if _, seen := p.failed[mc.node]; !seen {
			p.failed[mc.node] = err
		}
		return solver.Size[float64]{}
	}
	return solver.Size[float64]{Width: v.X, Height: v.Y}
}

// computeLayouts runs the solver once per root. Nodes whose measurement
// failed are re-armed for the next frame.
func (e *Engine) computeLayouts(s *Scene, roots []layoutRoot, rep *FrameReport) error {
	p := measurePass{scene: s, failed: make(map[NodeID]error)}
	for _, r := range roots {
		if err := e.table.ComputeLayout(r.id, r.size, p.measure); err != nil {
			rep.Err = multierr.Append(rep.Err, err)
			continue
		}
		rep.LayoutRoots++
		if p.fatal != nil {
			return p.fatal
		}
	}

	ids := make([]NodeID, 0, len(p.failed))
	for id := range p.failed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if n := s.node(id); n != nil && n.content != nil {
			n.content.needsMeasure = true
		}
		Logger().Warn("moon: measure failed, retrying next frame", "node", id, "err", p.failed[id])
		rep.Err = multierr.Append(rep.Err, &MeasureError{Node: id, Err: p.failed[id]})
	}
	return nil
}

// deriveGeometry copies layout into ComputedNode under every root and
// composes layout translation into child transforms.
func (e *Engine) deriveGeometry(s *Scene, roots []layoutRoot, rep *FrameReport) {
	for _, r := range roots {
		e.geometry(s, r.id, nil, r.scale, rep)
	}
}

func (e *Engine) geometry(s *Scene, id NodeID, parent *sceneNode, scale float64, rep *FrameReport) {
	n := s.nodes[id]
	l, err := e.table.Layout(id, scale)
	if err != nil {
		// Not synced yet; picked up next frame.
		return
	}

	c := &n.computed
	prevLoc, prevSize := c.Location, c.Size
	c.ApplyLayout(l)
	c.SetCornerRadii(n.style.CornerRadii)
	if n.style.Outline != nil {
		c.SetOutline(*n.style.Outline)
	}
	if prevLoc != c.Location || prevSize != c.Size {
		rep.GeometryUpdates++
	}

	if parent != nil && composeTransform(&n.transform, c, parent.computed.Size) {
		rep.TransformWrites++
	}

	for _, child := range n.children {
		e.geometry(s, child, n, scale, rep)
	}
}

// propagateTransforms recomputes ComputedNode.Global for every tree.
func (e *Engine) propagateTransforms(s *Scene) {
	for _, root := range s.Roots() {
		propagate(s, root, GlobalIdentity())
	}
}

func propagate(s *Scene, id NodeID, parent GlobalTransform) {
	n := s.nodes[id]
	n.computed.Global = parent.Mul(n.transform)
	for _, c := range n.children {
		propagate(s, c, n.computed.Global)
	}
}
