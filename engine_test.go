package moon

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

func box(w, h float64) Style {
	s := DefaultStyle()
	s.Layout.Size = solver.Size[solver.Dimension]{Width: solver.Length(w), Height: solver.Length(h)}
	return s
}

func column() Style {
	s := DefaultStyle()
	s.Layout.FlexDirection = solver.Column
	return s
}

func clipped(s Style, x, y bool) Style {
	if x {
		s.Layout.Overflow.X = solver.OverflowClip
	}
	if y {
		s.Layout.Overflow.Y = solver.OverflowClip
	}
	return s
}

// fixture is a scene with one 800x600 target at scale 1.
type fixture struct {
	t      *testing.T
	engine *Engine
	scene  *Scene
	target TargetID
}

func newFixture(t *testing.T, opts ...EngineOption) *fixture {
	t.Helper()
	s := NewScene()
	return &fixture{
		t:      t,
		engine: NewEngine(opts...),
		scene:  s,
		target: s.AddTarget(TargetInfo{ScaleFactor: 1, PhysicalSize: V2(800, 600)}),
	}
}

func (f *fixture) spawn(parent *NodeID, style Style) NodeID {
	f.t.Helper()
	if parent == nil {
		return f.scene.Spawn(style)
	}
	id, err := f.scene.SpawnChild(*parent, style)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) showAll() {
	f.t.Helper()
	ids := make([]NodeID, 0, len(f.scene.nodes))
	for i, n := range f.scene.nodes {
		if n != nil {
			ids = append(ids, NodeID(i))
		}
	}
	require.NoError(f.t, f.scene.SetVisible(f.target, ids...))
}

func (f *fixture) update() FrameReport {
	f.t.Helper()
	rep, err := f.engine.Update(context.Background(), f.scene)
	require.NoError(f.t, err)
	return rep
}

func (f *fixture) computed(id NodeID) ComputedNode {
	f.t.Helper()
	c, ok := f.scene.Computed(id)
	require.True(f.t, ok, "node %d not alive", id)
	return c
}

func (f *fixture) clip(id NodeID) *Rect {
	f.t.Helper()
	s, ok := f.scene.Style(id)
	require.True(f.t, ok)
	return s.ClipRect
}

// scenarioA builds a column root holding 100x50 and 100x70 children.
func scenarioA(f *fixture) (root, c1, c2 NodeID) {
	root = f.spawn(nil, column())
	c1 = f.spawn(&root, box(100, 50))
	c2 = f.spawn(&root, box(100, 70))
	f.showAll()
	return root, c1, c2
}

func TestEngine_ColumnSizesRootToChildren(t *testing.T) {
	f := newFixture(t)
	root, c1, c2 := scenarioA(f)

	rep := f.update()
	assert.Equal(t, 3, rep.NodesSynced)
	assert.Equal(t, 1, rep.LayoutRoots)
	assert.Equal(t, 3, rep.StackedNodes)
	assert.Empty(t, rep.Errors())

	assert.Equal(t, V2(100, 120), f.computed(root).Size)
	assert.Equal(t, V2(0, 50), f.computed(c2).Location)
	assert.Less(t, f.computed(c1).StackIndex, f.computed(c2).StackIndex)
	assert.Equal(t, 0, f.computed(root).StackIndex)
}

func TestEngine_ComposesChildCenters(t *testing.T) {
	f := newFixture(t)
	root, c1, c2 := scenarioA(f)
	f.update()

	// Centers relative to the root center, Y up.
	tr1, _ := f.scene.Transform(c1)
	tr2, _ := f.scene.Transform(c2)
	assert.Equal(t, V3(0, 35, 0), tr1.Translation)
	assert.Equal(t, V3(0, -25, 0), tr2.Translation)

	rootTr, _ := f.scene.Transform(root)
	assert.Equal(t, IdentityTransform(), rootTr, "root transform belongs to the host")

	assert.Equal(t, V3(0, 35, 0), f.computed(c1).Global.Translation())
}

func TestEngine_Idempotent(t *testing.T) {
	f := newFixture(t)
	root, c1, c2 := scenarioA(f)

	first := f.update()
	require.Positive(t, first.SolverWrites)
	before := []ComputedNode{f.computed(root), f.computed(c1), f.computed(c2)}

	second := f.update()
	assert.Zero(t, second.SolverWrites)
	assert.Zero(t, second.NodesSynced)
	assert.Zero(t, second.TransformWrites)
	assert.Zero(t, second.ClipWrites)
	assert.Equal(t, before, []ComputedNode{f.computed(root), f.computed(c1), f.computed(c2)})
}

func TestEngine_StyleChangeResyncs(t *testing.T) {
	f := newFixture(t)
	root, _, c2 := scenarioA(f)
	f.update()

	st, err := f.scene.StyleMut(c2)
	require.NoError(t, err)
	st.Layout.Size.Height = solver.Length(30)

	rep := f.update()
	assert.Equal(t, 1, rep.NodesSynced)
	assert.Positive(t, rep.SolverWrites)
	assert.Equal(t, V2(100, 80), f.computed(root).Size)
}

func TestEngine_Despawn(t *testing.T) {
	f := newFixture(t)
	root, c1, c2 := scenarioA(f)
	f.update()
	require.Equal(t, 3, f.engine.NodeTable().Len())

	require.NoError(t, f.scene.Despawn(c1))
	f.update()

	assert.Equal(t, 2, f.engine.NodeTable().Len())
	_, ok := f.engine.NodeTable().Handle(c1)
	assert.False(t, ok)
	assert.Equal(t, V2(100, 70), f.computed(root).Size)
	assert.Equal(t, V2(0, 0), f.computed(c2).Location)
}

func TestEngine_RemoveChildrenMakesRoots(t *testing.T) {
	f := newFixture(t)
	root, c1, c2 := scenarioA(f)
	f.update()

	require.NoError(t, f.scene.RemoveChildren(root))
	rep := f.update()

	st, ok := f.engine.Stack(f.target)
	require.True(t, ok)
	assert.Equal(t, []NodeID{root, c1, c2}, st.Roots)
	assert.Equal(t, 3, rep.LayoutRoots)
	assert.Equal(t, V2(0, 0), f.computed(root).Size)
}

func TestEngine_ScaleFactor(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.SetTargetInfo(f.target, TargetInfo{ScaleFactor: 2, PhysicalSize: V2(1600, 1200)}))
	root, c1, _ := scenarioA(f)

	f.update()
	assert.Equal(t, V2(100, 120), f.computed(root).Size)
	assert.Equal(t, V2(100, 50), f.computed(c1).Size)

	h, ok := f.engine.NodeTable().Handle(c1)
	require.True(t, ok)
	l, err := f.engine.NodeTable().Tree().Layout(h)
	require.NoError(t, err)
	assert.Equal(t, 200.0, l.Size.Width, "solver works in physical pixels")
}

func TestEngine_ScaleFactorChangeResyncs(t *testing.T) {
	f := newFixture(t)
	root, c1, _ := scenarioA(f)
	f.update()
	require.Equal(t, V2(100, 120), f.computed(root).Size)

	require.NoError(t, f.scene.SetTargetInfo(f.target, TargetInfo{ScaleFactor: 2, PhysicalSize: V2(1600, 1200)}))
	rep := f.update()
	assert.Equal(t, 3, rep.NodesSynced)
	assert.Equal(t, V2(100, 120), f.computed(root).Size)
	assert.Equal(t, V2(100, 50), f.computed(c1).Size)

	h, ok := f.engine.NodeTable().Handle(c1)
	require.True(t, ok)
	l, err := f.engine.NodeTable().Tree().Layout(h)
	require.NoError(t, err)
	assert.Equal(t, 200.0, l.Size.Width)

	rep = f.update()
	assert.Zero(t, rep.NodesSynced)
	assert.Zero(t, rep.SolverWrites)
}

func TestEngine_StackDeterministic(t *testing.T) {
	build := func() (*fixture, []NodeID) {
		f := newFixture(t)
		root := f.spawn(nil, column())
		var ids []NodeID
		for _, z := range []float64{1, 0, -1, 0} {
			id := f.spawn(&root, box(10, 10))
			require.NoError(t, f.scene.SetTransform(id, FromTranslation(V3(0, 0, z))))
			ids = append(ids, id)
		}
		f.showAll()
		f.update()
		return f, ids
	}

	f1, ids := build()
	f2, _ := build()
	st1, _ := f1.engine.Stack(f1.target)
	st2, _ := f2.engine.Stack(f2.target)

	// z=-1 first, then the z=0 pair by ID, then z=1.
	assert.Equal(t, []NodeID{0, ids[2], ids[1], ids[3], ids[0]}, st1.Entities)
	assert.Equal(t, st1.Entities, st2.Entities)
	assert.Equal(t, []Range{{0, 1}, {1, 5}}, st1.Ranges)
	for i, id := range st1.Entities {
		assert.Equal(t, i, f1.computed(id).StackIndex)
		assert.Equal(t, f1.computed(id).StackIndex, f2.computed(id).StackIndex)
	}

	var front []NodeID
	for id := range st1.FrontToBack() {
		front = append(front, id)
	}
	assert.Equal(t, []NodeID{ids[0], ids[3], ids[1], 0, ids[2]}, front)
}

func TestEngine_VisibilityExclusion(t *testing.T) {
	f := newFixture(t)
	other := f.scene.AddTarget(TargetInfo{ScaleFactor: 1, PhysicalSize: V2(400, 300)})
	root, c1, c2 := scenarioA(f)
	require.NoError(t, f.scene.SetVisible(other, root, c2))

	f.update()

	main, ok := f.engine.Stack(f.target)
	require.True(t, ok)
	assert.Contains(t, main.Entities, c1)

	st, ok := f.engine.Stack(other)
	require.True(t, ok)
	assert.Equal(t, []NodeID{root, c2}, st.Entities)
	assert.False(t, st.Visible(c1))
	assert.NotContains(t, st.Entities, c1)
}

func TestEngine_EmptyTargetHasNoStack(t *testing.T) {
	f := newFixture(t)
	scenarioA(f)
	f.update()
	require.NoError(t, f.scene.SetVisible(f.target))

	rep := f.update()
	_, ok := f.engine.Stack(f.target)
	assert.False(t, ok)
	assert.Zero(t, rep.StackedNodes)
}

func TestEngine_ClipOverflowAxes(t *testing.T) {
	tests := []struct {
		name     string
		x, y     bool
		wantClip bool
	}{
		{name: "visible", wantClip: false},
		{name: "clip x", x: true, wantClip: true},
		{name: "clip both", x: true, y: true, wantClip: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			root := f.spawn(nil, clipped(box(100, 100), tt.x, tt.y))
			child := f.spawn(&root, box(10, 10))
			f.showAll()
			f.update()

			got := f.clip(child)
			if !tt.wantClip {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, -50.0, got.Min.X)
			assert.Equal(t, 50.0, got.Max.X)
			if tt.y {
				assert.Equal(t, -50.0, got.Min.Y)
			} else {
				assert.True(t, math.IsInf(got.Min.Y, -1))
				assert.True(t, math.IsInf(got.Max.Y, 1))
			}
			assert.Nil(t, f.clip(root), "a node is not clipped by itself")
		})
	}
}

func TestEngine_ClipComposition(t *testing.T) {
	build := func(override bool) (*fixture, NodeID, NodeID, NodeID) {
		f := newFixture(t)
		root := f.spawn(nil, clipped(box(200, 200), true, true))
		a := f.spawn(&root, box(100, 100))
		b := f.spawn(&a, box(50, 50))
		c := f.spawn(&b, box(10, 10))
		require.NoError(t, f.scene.SetOverrideClip(b, override))
		f.showAll()
		f.update()
		return f, a, b, c
	}

	f, a, _, c := build(false)
	want := Rect{Min: V2(-100, -100), Max: V2(100, 100)}
	require.NotNil(t, f.clip(a))
	assert.Equal(t, want, *f.clip(a))
	require.NotNil(t, f.clip(c))
	assert.Equal(t, want, *f.clip(c))

	f, _, b, c := build(true)
	assert.Nil(t, f.clip(b))
	assert.Nil(t, f.clip(c))
}

func TestEngine_ClipIntersectsNested(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, clipped(box(200, 200), true, false))
	// inner shrinks to 200 wide and sits in the top half of root.
	inner := f.spawn(&root, clipped(box(300, 100), false, true))
	leaf := f.spawn(&inner, box(10, 10))
	f.showAll()
	f.update()

	assert.Equal(t, V2(200, 100), f.computed(inner).Size)
	got := f.clip(leaf)
	require.NotNil(t, got)
	assert.Equal(t, Rect{Min: V2(-100, 0), Max: V2(100, 100)}, *got)
}

func TestEngine_ClipMarginAndVisualBox(t *testing.T) {
	f := newFixture(t)
	st := clipped(box(100, 100), true, true)
	st.Layout.Border = solver.EdgeAll(solver.Length(5))
	st.Layout.Padding = solver.EdgeAll(solver.Length(10))
	st.OverflowClipMargin = OverflowClipMargin{VisualBox: VisualContentBox, Margin: 3}
	root := f.spawn(nil, st)
	child := f.spawn(&root, box(10, 10))
	f.showAll()
	f.update()

	got := f.clip(child)
	require.NotNil(t, got)
	assert.Equal(t, Rect{Min: V2(-38, -38), Max: V2(38, 38)}, *got)
}

func TestEngine_HiddenPropagatesEmptyClip(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, column())
	hidden := DefaultStyle()
	hidden.Layout.Display = solver.DisplayNone
	h := f.spawn(&root, hidden)
	c1 := f.spawn(&h, clipped(box(10, 10), true, true))
	c2 := f.spawn(&h, box(10, 10))
	f.showAll()
	f.update()

	for _, id := range []NodeID{c1, c2} {
		got := f.clip(id)
		require.NotNil(t, got, "node %d", id)
		assert.True(t, got.IsEmpty(), "node %d clip = %v", id, got)
	}
	assert.Nil(t, f.clip(root))
}

func TestEngine_ClipClearedWhenParentStopsClipping(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, clipped(box(100, 100), true, true))
	child := f.spawn(&root, box(10, 10))
	f.showAll()
	f.update()
	require.NotNil(t, f.clip(child))

	require.NoError(t, f.scene.SetStyle(root, box(100, 100)))
	rep := f.update()
	assert.Nil(t, f.clip(child))
	assert.Equal(t, 1, rep.ClipWrites)
}

func TestEngine_TransformKeepsRotationAndScale(t *testing.T) {
	f := newFixture(t)
	_, c1, c2 := scenarioA(f)
	authored := Transform{Rotation: math.Pi / 4, Scale: V2(2, 2)}
	require.NoError(t, f.scene.SetTransform(c2, authored))

	f.update()
	got, _ := f.scene.Transform(c2)
	assert.Equal(t, authored.Rotation, got.Rotation)
	assert.Equal(t, authored.Scale, got.Scale)

	// Layout translation is composed after the authored linear part.
	linear := Rotate(authored.Rotation).Multiply(Scale(2, 2))
	want := linear.TransformPoint(V2(0, -25))
	assert.InDelta(t, want.X, got.Translation.X, 1e-9)
	assert.InDelta(t, want.Y, got.Translation.Y, 1e-9)

	// Moving the node keeps the authored part intact.
	st, err := f.scene.StyleMut(c1)
	require.NoError(t, err)
	st.Layout.Size.Height = solver.Length(10)
	rep := f.update()
	assert.Positive(t, rep.TransformWrites)

	moved, _ := f.scene.Transform(c2)
	assert.Equal(t, authored.Rotation, moved.Rotation)
	assert.Equal(t, authored.Scale, moved.Scale)
	a := moved.Affine().Multiply(f.computed(c2).Affine.Invert())
	assert.True(t, a.Approx(Translate(got.Translation.X, got.Translation.Y).
		Multiply(linear).Multiply(Translate(0, -25).Invert()), 1e-9))
}

func TestEngine_MeasureFailureRearms(t *testing.T) {
	f := newFixture(t)
	fail := true
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetContent(root, MeasureFunc(func(MeasureArgs, *solver.Style) (Vec2, error) {
		if fail {
			return Vec2{}, errors.New("image not loaded")
		}
		return V2(40, 20), nil
	})))
	f.showAll()

	rep := f.update()
	errs := rep.Errors()
	require.Len(t, errs, 1)
	var me *MeasureError
	require.ErrorAs(t, errs[0], &me)
	assert.Equal(t, root, me.Node)
	assert.True(t, f.scene.Content(root).NeedsMeasure())
	assert.Equal(t, V2(0, 0), f.computed(root).Size)

	fail = false
	rep = f.update()
	assert.Empty(t, rep.Errors())
	assert.Equal(t, 1, rep.NodesSynced)
	assert.False(t, f.scene.Content(root).NeedsMeasure())
	assert.Equal(t, V2(40, 20), f.computed(root).Size)
}

func TestEngine_ContentRemovedAfterFailureSettles(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetContent(root, MeasureFunc(func(MeasureArgs, *solver.Style) (Vec2, error) {
		return Vec2{}, errors.New("image not loaded")
	})))
	f.showAll()

	rep := f.update()
	require.Len(t, rep.Errors(), 1)
	require.True(t, f.scene.Content(root).NeedsMeasure())

	require.NoError(t, f.scene.SetContent(root, nil))
	rep = f.update()
	assert.Empty(t, rep.Errors())
	assert.Equal(t, 1, rep.SolverWrites)
	assert.False(t, f.scene.Content(root).NeedsMeasure())

	for range 3 {
		rep = f.update()
		assert.Zero(t, rep.SolverWrites)
		assert.Zero(t, rep.NodesSynced)
	}
}

func TestEngine_ContentCorruptedIsFatal(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetContent(root, MeasureFunc(func(MeasureArgs, *solver.Style) (Vec2, error) {
		return Vec2{}, ErrContentCorrupted
	})))
	f.showAll()

	rep, err := f.engine.Update(context.Background(), f.scene)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "layout", fe.Phase)
	assert.Equal(t, root, fe.Node)
	assert.ErrorIs(t, err, ErrContentCorrupted)
	assert.Zero(t, rep.GeometryUpdates)
}

func TestEngine_TextContent(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetText(root, "hello moon", text.Style{}))
	f.showAll()

	rep := f.update()
	assert.Equal(t, 1, rep.TextMeasures)
	size := f.computed(root).Size
	assert.Positive(t, size.X)
	assert.Positive(t, size.Y)
	assert.False(t, f.scene.Text(root).NeedsMeasure())
	assert.Equal(t, 1, f.scene.Buffers().Len())

	rep = f.update()
	assert.Zero(t, rep.TextMeasures)
	assert.Equal(t, size, f.computed(root).Size)

	// A zoom change reshapes.
	info, _ := f.scene.Target(f.target)
	info.ZoomFactor = 0.5
	require.NoError(t, f.scene.SetTargetInfo(f.target, info))
	rep = f.update()
	assert.Equal(t, 1, rep.TextMeasures)
}

func TestEngine_TextNoWrapIsFixed(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetText(root, "one line only", text.Style{Size: 12, Wrap: text.WrapNone}))
	f.showAll()
	f.update()

	m := f.scene.Content(root).Measure()
	fixed, ok := m.(FixedMeasure)
	require.True(t, ok, "measure is %T", m)
	assert.Equal(t, fixed.Size, f.computed(root).Size)
}

func TestEngine_TextUnknownFontRetries(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetText(root, "x", text.Style{Font: "Missing Sans"}))
	f.showAll()

	rep := f.update()
	assert.Equal(t, 1, rep.TextRetries)
	assert.Zero(t, rep.TextMeasures)
	assert.True(t, f.scene.Text(root).NeedsMeasure())

	rep = f.update()
	assert.Equal(t, 1, rep.TextRetries)
}

func TestEngine_CorruptedTextBufferIsFatal(t *testing.T) {
	f := newFixture(t)
	root := f.spawn(nil, DefaultStyle())
	require.NoError(t, f.scene.SetText(root, "some wrapping text", text.Style{}))
	f.showAll()
	f.update()

	f.scene.Buffers().Get(root).Reset()
	_, err := f.engine.Update(context.Background(), f.scene)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrContentCorrupted)
	assert.ErrorIs(t, err, text.ErrInconsistentBlock)
}

func TestEngine_CanceledContext(t *testing.T) {
	f := newFixture(t)
	scenarioA(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := f.engine.Update(ctx, f.scene)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rep.NodesSynced)
	assert.Equal(t, uint64(1), rep.Frame)
}

func TestEngine_WithRoundingOff(t *testing.T) {
	f := newFixture(t, WithRounding(false))
	root := f.spawn(nil, DefaultStyle())
	f.spawn(&root, box(10.4, 10.4))
	f.showAll()
	f.update()
	assert.Equal(t, V2(10.4, 10.4), f.computed(root).Size)
	assert.False(t, f.engine.Config().Rounding)
}

func TestEngine_DumpTree(t *testing.T) {
	f := newFixture(t)
	scenarioA(f)
	f.update()

	out := f.engine.DumpTree(f.scene)
	assert.Contains(t, out, "#0 size=100x120")
	assert.Contains(t, out, "#2 size=100x70 center=(0,-25)")

	st, _ := f.engine.Stack(f.target)
	assert.Contains(t, st.Dump(), "0: #0 z=0")
}
