package moon

import (
	"fmt"
	"slices"

	"github.com/gogpu/moon/text"
)

// NodeID identifies a node of a Scene. IDs are never reused.
type NodeID uint32

// sceneNode is one node of the host tree plus the engine's bookkeeping.
type sceneNode struct {
	parent    NodeID
	hasParent bool
	children  []NodeID

	style        Style
	transform    Transform
	computed     ComputedNode
	content      *ContentSize
	text         *TextContent
	overrideClip bool

	styleTick    uint64
	childrenTick uint64

	// Written by the engine.
	synced         uint64
	childrenSynced uint64

	// syncedScale is the scale factor of the last upsert; 0 before it.
	syncedScale float64
}

// Scene is an in-memory retained node tree with render targets. It
// records changes with ticks so the engine only re-syncs what changed.
//
// A Scene is driven by a single Engine and is not safe for concurrent use.
type Scene struct {
	nodes   []*sceneNode
	targets []*target
	tick    uint64
	buffers *ContentBuffers

	despawned       []NodeID
	removedChildren []NodeID
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{buffers: NewContentBuffers()}
}

func (s *Scene) bump() uint64 {
	s.tick++
	return s.tick
}

func (s *Scene) node(id NodeID) *sceneNode {
	if int(id) >= len(s.nodes) {
		return nil
	}
	return s.nodes[id]
}

func (s *Scene) mustNode(id NodeID) (*sceneNode, error) {
	n := s.node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return n, nil
}

// Spawn adds a parentless node with the given style.
func (s *Scene) Spawn(style Style) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, &sceneNode{
		style:     style,
		transform: IdentityTransform(),
		computed:  NewComputedNode(),
		styleTick: s.bump(),
	})
	return id
}

// SpawnChild adds a node as the last child of parent.
func (s *Scene) SpawnChild(parent NodeID, style Style) (NodeID, error) {
	if _, err := s.mustNode(parent); err != nil {
		return 0, err
	}
	id := s.Spawn(style)
	return id, s.SetParent(id, parent)
}

// Alive reports whether id names a live node.
func (s *Scene) Alive(id NodeID) bool {
	return s.node(id) != nil
}

// Len returns the number of live nodes.
func (s *Scene) Len() int {
	n := 0
	for _, node := range s.nodes {
		if node != nil {
			n++
		}
	}
	return n
}

// Despawn removes id and its descendants.
func (s *Scene) Despawn(id NodeID) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	if n.hasParent {
		s.detach(n.parent, id)
	}
	s.despawn(id)
	return nil
}

func (s *Scene) despawn(id NodeID) {
	n := s.nodes[id]
	for _, c := range n.children {
		s.despawn(c)
	}
	s.nodes[id] = nil
	s.buffers.Delete(id)
	s.despawned = append(s.despawned, id)
}

func (s *Scene) detach(parent, child NodeID) {
	p := s.nodes[parent]
	if i := slices.Index(p.children, child); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	p.childrenTick = s.bump()
	c := s.nodes[child]
	c.hasParent = false
	if len(p.children) == 0 {
		s.removedChildren = append(s.removedChildren, parent)
	}
}

// SetParent makes child the last child of parent, moving it from its
// previous parent.
func (s *Scene) SetParent(child, parent NodeID) error {
	c, err := s.mustNode(child)
	if err != nil {
		return err
	}
	p, err := s.mustNode(parent)
	if err != nil {
		return err
	}
	for cur, ok := parent, true; ok; cur, ok = s.nodes[cur].parent, s.nodes[cur].hasParent {
		if cur == child {
			return fmt.Errorf("moon: %d is an ancestor of %d", child, parent)
		}
	}
	if c.hasParent {
		if c.parent == parent {
			return nil
		}
		s.detach(c.parent, child)
	}
	c.parent, c.hasParent = parent, true
	p.children = append(p.children, child)
	p.childrenTick = s.bump()
	return nil
}

// AddChild is SetParent with the arguments the other way round.
func (s *Scene) AddChild(parent, child NodeID) error {
	return s.SetParent(child, parent)
}

// RemoveChildren detaches every child of id; they become roots.
func (s *Scene) RemoveChildren(id NodeID) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	if len(n.children) == 0 {
		return nil
	}
	for _, c := range n.children {
		s.nodes[c].hasParent = false
	}
	n.children = nil
	n.childrenTick = s.bump()
	s.removedChildren = append(s.removedChildren, id)
	return nil
}

// Parent returns the parent of id.
func (s *Scene) Parent(id NodeID) (NodeID, bool) {
	n := s.node(id)
	if n == nil || !n.hasParent {
		return 0, false
	}
	return n.parent, true
}

// Children returns a copy of the children of id.
func (s *Scene) Children(id NodeID) []NodeID {
	n := s.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// Roots returns every live parentless node in ID order.
func (s *Scene) Roots() []NodeID {
	var roots []NodeID
	for i, n := range s.nodes {
		if n != nil && !n.hasParent {
			roots = append(roots, NodeID(i))
		}
	}
	return roots
}

// Style returns the style of id.
func (s *Scene) Style(id NodeID) (Style, bool) {
	n := s.node(id)
	if n == nil {
		return Style{}, false
	}
	return n.style, true
}

// SetStyle replaces the style of id.
func (s *Scene) SetStyle(id NodeID, style Style) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	n.style = style
	n.styleTick = s.bump()
	return nil
}

// StyleMut returns the style of id for in-place edits and marks it
// changed.
func (s *Scene) StyleMut(id NodeID) (*Style, error) {
	n, err := s.mustNode(id)
	if err != nil {
		return nil, err
	}
	n.styleTick = s.bump()
	return &n.style, nil
}

// Transform returns the local transform of id.
func (s *Scene) Transform(id NodeID) (Transform, bool) {
	n := s.node(id)
	if n == nil {
		return Transform{}, false
	}
	return n.transform, true
}

// SetTransform replaces the local transform of id. For non-root nodes
// the engine rewrites Translation.X and .Y during layout.
func (s *Scene) SetTransform(id NodeID, t Transform) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	n.transform = t
	return nil
}

// Computed returns the computed geometry of id.
func (s *Scene) Computed(id NodeID) (ComputedNode, bool) {
	n := s.node(id)
	if n == nil {
		return ComputedNode{}, false
	}
	return n.computed, true
}

// SetContent sets the measure of id. A nil measure removes it.
func (s *Scene) SetContent(id NodeID, m Measure) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	s.setContent(n, m)
	return nil
}

func (s *Scene) setContent(n *sceneNode, m Measure) {
	if n.content == nil {
		if m == nil {
			return
		}
		n.content = &ContentSize{}
	}
	n.content.measure = m
	n.content.tick = s.bump()
}

// Content returns the content holder of id, or nil.
func (s *Scene) Content(id NodeID) *ContentSize {
	n := s.node(id)
	if n == nil {
		return nil
	}
	return n.content
}

// SetText sets the text content of id. Its measure is rebuilt before the
// next layout.
func (s *Scene) SetText(id NodeID, content string, style text.Style) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	n.text = &TextContent{Text: content, Style: style, needsMeasure: true}
	return nil
}

// Text returns the text content of id, or nil.
func (s *Scene) Text(id NodeID) *TextContent {
	n := s.node(id)
	if n == nil {
		return nil
	}
	return n.text
}

// Buffers returns the content buffers of the scene's text nodes.
func (s *Scene) Buffers() *ContentBuffers {
	return s.buffers
}

// SetOverrideClip makes id ignore every clip it inherits.
func (s *Scene) SetOverrideClip(id NodeID, override bool) error {
	n, err := s.mustNode(id)
	if err != nil {
		return err
	}
	n.overrideClip = override
	return nil
}

// AddTarget adds a render target with no visible nodes.
func (s *Scene) AddTarget(info TargetInfo) TargetID {
	s.targets = append(s.targets, &target{info: info.normalized()})
	return TargetID(len(s.targets) - 1)
}

func (s *Scene) target(id TargetID) (*target, error) {
	if int(id) >= len(s.targets) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, id)
	}
	return s.targets[id], nil
}

// Target returns the info of a target.
func (s *Scene) Target(id TargetID) (TargetInfo, bool) {
	t, err := s.target(id)
	if err != nil {
		return TargetInfo{}, false
	}
	return t.info, true
}

// SetTargetInfo updates a target's scale, zoom and size.
func (s *Scene) SetTargetInfo(id TargetID, info TargetInfo) error {
	t, err := s.target(id)
	if err != nil {
		return err
	}
	info = info.normalized()
	info.changed = t.info.changed
	t.info = info
	return nil
}

// SetVisible replaces the set of nodes visible in a target.
func (s *Scene) SetVisible(id TargetID, nodes ...NodeID) error {
	t, err := s.target(id)
	if err != nil {
		return err
	}
	t.visible = slices.Clone(nodes)
	return nil
}

// Targets returns every target ID in creation order.
func (s *Scene) Targets() []TargetID {
	return s.targetOrder()
}

func (s *Scene) targetOrder() []TargetID {
	ids := make([]TargetID, len(s.targets))
	for i := range ids {
		ids[i] = TargetID(i)
	}
	return ids
}

// drainRemovals returns and clears the removal queues.
func (s *Scene) drainRemovals() (children, despawned []NodeID) {
	children, despawned = s.removedChildren, s.despawned
	s.removedChildren, s.despawned = nil, nil
	return children, despawned
}
