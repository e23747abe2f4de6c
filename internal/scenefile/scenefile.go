// Package scenefile loads scene descriptions written in YAML into a
// moon.Scene.
//
// A file lists render targets and a forest of nodes:
//
//	targets:
//	  - name: main
//	    width: 800
//	    height: 600
//	nodes:
//	  - name: root
//	    style: {direction: column, padding: [8], background: "#202020"}
//	    children:
//	      - style: {width: 100, height: 50}
//	      - text: {value: "hello", size: 14}
//
// A node is visible in every target unless it lists target names.
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/gogpu/moon"
	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

// File is a parsed scene description.
type File struct {
	Targets []Target `yaml:"targets"`
	Nodes   []Node   `yaml:"nodes"`
}

// Target describes one render target. Width and height are in physical
// pixels.
type Target struct {
	Name   string  `yaml:"name"`
	Scale  float64 `yaml:"scale"`
	Zoom   float64 `yaml:"zoom"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Node is one node and its subtree.
type Node struct {
	Name  string `yaml:"name"`
	Style Style  `yaml:"style"`

	// Z, Rotation (degrees) and Scale form the authored transform.
	Z        float64 `yaml:"z"`
	Rotation float64 `yaml:"rotation"`
	Scale    float64 `yaml:"scale"`

	Text *Text `yaml:"text"`
	// Content is a fixed intrinsic size [width, height].
	Content []float64 `yaml:"content"`

	OverrideClip bool     `yaml:"override_clip"`
	Targets      []string `yaml:"targets"`
	Children     []Node   `yaml:"children"`
}

// Text is text content.
type Text struct {
	Value      string  `yaml:"value"`
	Font       string  `yaml:"font"`
	Size       float64 `yaml:"size"`
	LineHeight float64 `yaml:"line_height"`
	Wrap       string  `yaml:"wrap"`
}

// Style is the YAML form of moon.Style.
type Style struct {
	Display   string `yaml:"display"`
	Position  string `yaml:"position"`
	Direction string `yaml:"direction"`
	Justify   string `yaml:"justify"`
	Align     string `yaml:"align"`
	AlignSelf string `yaml:"align_self"`

	Width     *Length `yaml:"width"`
	Height    *Length `yaml:"height"`
	MinWidth  *Length `yaml:"min_width"`
	MinHeight *Length `yaml:"min_height"`
	MaxWidth  *Length `yaml:"max_width"`
	MaxHeight *Length `yaml:"max_height"`

	Margin  Edges   `yaml:"margin"`
	Padding Edges   `yaml:"padding"`
	Border  Edges   `yaml:"border"`
	Inset   Edges   `yaml:"inset"`
	Gap     *Length `yaml:"gap"`

	Grow   float64  `yaml:"grow"`
	Shrink *float64 `yaml:"shrink"`
	Basis  *Length  `yaml:"basis"`

	Columns []Track `yaml:"columns"`
	Rows    []Track `yaml:"rows"`

	Overflow  string `yaml:"overflow"`
	OverflowX string `yaml:"overflow_x"`
	OverflowY string `yaml:"overflow_y"`

	Background   string   `yaml:"background"`
	BorderColor  string   `yaml:"border_color"`
	CornerRadius float64  `yaml:"corner_radius"`
	Outline      *Outline `yaml:"outline"`
	ClipBox      string   `yaml:"clip_box"`
	ClipMargin   float64  `yaml:"clip_margin"`
}

// Outline is the YAML form of moon.Outline.
type Outline struct {
	Color  string  `yaml:"color"`
	Width  *Length `yaml:"width"`
	Offset *Length `yaml:"offset"`
}

// Scene is a loaded scene with its names resolved.
type Scene struct {
	*moon.Scene
	TargetIDs map[string]moon.TargetID
	NodeIDs   map[string]moon.NodeID
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process scene file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scene description. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode scene data: %w", err)
	}
	if len(f.Targets) == 0 {
		f.Targets = []Target{{Name: "main", Width: 800, Height: 600}}
	}
	return &f, nil
}

// Build creates the scene described by f.
func (f *File) Build() (*Scene, error) {
	s := &Scene{
		Scene:     moon.NewScene(),
		TargetIDs: make(map[string]moon.TargetID),
		NodeIDs:   make(map[string]moon.NodeID),
	}
	order := make([]string, 0, len(f.Targets))
	for _, t := range f.Targets {
		if _, dup := s.TargetIDs[t.Name]; dup {
			return nil, fmt.Errorf("duplicate target %q", t.Name)
		}
		s.TargetIDs[t.Name] = s.AddTarget(moon.TargetInfo{
			ScaleFactor:  t.Scale,
			ZoomFactor:   t.Zoom,
			PhysicalSize: moon.V2(t.Width, t.Height),
		})
		order = append(order, t.Name)
	}

	b := builder{scene: s, visible: make(map[string][]moon.NodeID), all: order}
	for i := range f.Nodes {
		if err := b.node(&f.Nodes[i], nil, fmt.Sprintf("nodes[%d]", i)); err != nil {
			return nil, err
		}
	}
	for name, ids := range b.visible {
		if err := s.SetVisible(s.TargetIDs[name], ids...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type builder struct {
	scene   *Scene
	visible map[string][]moon.NodeID
	all     []string
}

func (b *builder) node(n *Node, parent *moon.NodeID, path string) error {
	style, err := n.Style.toMoon()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var id moon.NodeID
	if parent == nil {
		id = b.scene.Spawn(style)
	} else if id, err = b.scene.SpawnChild(*parent, style); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if n.Name != "" {
		if _, dup := b.scene.NodeIDs[n.Name]; dup {
			return fmt.Errorf("%s: duplicate node %q", path, n.Name)
		}
		b.scene.NodeIDs[n.Name] = id
	}

	tr := moon.IdentityTransform()
	tr.Translation.Z = n.Z
	tr.Rotation = n.Rotation * math.Pi / 180
	if n.Scale != 0 {
		tr.Scale = moon.V2(n.Scale, n.Scale)
	}
	if err := b.scene.SetTransform(id, tr); err != nil {
		return err
	}
	if err := b.scene.SetOverrideClip(id, n.OverrideClip); err != nil {
		return err
	}

	switch {
	case n.Text != nil:
		wrap, err := lookup("wrap", n.Text.Wrap, wraps)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ts := text.Style{Font: n.Text.Font, Size: n.Text.Size, LineHeight: n.Text.LineHeight, Wrap: wrap}
		if err := b.scene.SetText(id, n.Text.Value, ts); err != nil {
			return err
		}
	case len(n.Content) == 2:
		if err := b.scene.SetContent(id, moon.FixedMeasure{Size: moon.V2(n.Content[0], n.Content[1])}); err != nil {
			return err
		}
	case len(n.Content) != 0:
		return fmt.Errorf("%s: content needs [width, height]", path)
	}

	targets := n.Targets
	if len(targets) == 0 {
		targets = b.all
	}
	for _, name := range targets {
		if _, ok := b.scene.TargetIDs[name]; !ok {
			return fmt.Errorf("%s: unknown target %q", path, name)
		}
		b.visible[name] = append(b.visible[name], id)
	}

	for i := range n.Children {
		if err := b.node(&n.Children[i], &id, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Style) toMoon() (moon.Style, error) {
	out := moon.DefaultStyle()
	l := &out.Layout

	var err error
	if l.Display, err = lookup("display", s.Display, displays); err != nil {
		return out, err
	}
	if l.Position, err = lookup("position", s.Position, positions); err != nil {
		return out, err
	}
	if l.FlexDirection, err = lookup("direction", s.Direction, directions); err != nil {
		return out, err
	}
	if l.JustifyContent, err = lookup("justify", s.Justify, justifies); err != nil {
		return out, err
	}
	if s.Align != "" {
		if l.AlignItems, err = lookup("align", s.Align, aligns); err != nil {
			return out, err
		}
	}
	if s.AlignSelf != "" {
		if l.AlignSelf, err = lookup("align_self", s.AlignSelf, aligns); err != nil {
			return out, err
		}
	}

	l.Size = solver.Size[solver.Dimension]{Width: s.Width.Dimension(), Height: s.Height.Dimension()}
	l.MinSize = solver.Size[solver.Dimension]{Width: s.MinWidth.Dimension(), Height: s.MinHeight.Dimension()}
	l.MaxSize = solver.Size[solver.Dimension]{Width: s.MaxWidth.Dimension(), Height: s.MaxHeight.Dimension()}
	if s.Basis != nil {
		l.FlexBasis = s.Basis.Dimension()
	}
	if s.Gap != nil {
		l.Gap = solver.Size[solver.Dimension]{Width: s.Gap.Dimension(), Height: s.Gap.Dimension()}
	}

	if l.Margin, err = s.Margin.edges(); err != nil {
		return out, fmt.Errorf("margin: %w", err)
	}
	if l.Padding, err = s.Padding.edges(); err != nil {
		return out, fmt.Errorf("padding: %w", err)
	}
	if l.Border, err = s.Border.edges(); err != nil {
		return out, fmt.Errorf("border: %w", err)
	}
	if len(s.Inset) > 0 {
		if l.Inset, err = s.Inset.edges(); err != nil {
			return out, fmt.Errorf("inset: %w", err)
		}
	}

	l.FlexGrow = s.Grow
	if s.Shrink != nil {
		l.FlexShrink = *s.Shrink
	}
	for _, t := range s.Columns {
		l.GridTemplateColumns = append(l.GridTemplateColumns, solver.Track(t))
	}
	for _, t := range s.Rows {
		l.GridTemplateRows = append(l.GridTemplateRows, solver.Track(t))
	}

	ox, oy := s.Overflow, s.Overflow
	if s.OverflowX != "" {
		ox = s.OverflowX
	}
	if s.OverflowY != "" {
		oy = s.OverflowY
	}
	if l.Overflow.X, err = lookup("overflow", ox, overflows); err != nil {
		return out, err
	}
	if l.Overflow.Y, err = lookup("overflow", oy, overflows); err != nil {
		return out, err
	}

	if s.Background != "" {
		c, err := moon.ParseHex(s.Background)
		if err != nil {
			return out, err
		}
		out.Background = &c
	}
	if s.BorderColor != "" {
		c, err := moon.ParseHex(s.BorderColor)
		if err != nil {
			return out, err
		}
		bc := moon.BorderColorAll(c)
		out.BorderColor = &bc
	}
	out.CornerRadii = moon.CornersAll(s.CornerRadius)
	if o := s.Outline; o != nil {
		c, err := moon.ParseHex(o.Color)
		if err != nil {
			return out, fmt.Errorf("outline: %w", err)
		}
		out.Outline = &moon.Outline{Color: c, Width: lengthOr(o.Width), Offset: lengthOr(o.Offset)}
	}

	switch s.ClipBox {
	case "", "padding":
		out.OverflowClipMargin.VisualBox = moon.VisualPaddingBox
	case "border":
		out.OverflowClipMargin.VisualBox = moon.VisualBorderBox
	case "content":
		out.OverflowClipMargin.VisualBox = moon.VisualContentBox
	default:
		return out, fmt.Errorf("unknown clip_box %q", s.ClipBox)
	}
	out.OverflowClipMargin.Margin = s.ClipMargin
	return out, nil
}

// lengthOr returns l or zero when unset.
func lengthOr(l *Length) solver.Dimension {
	if l == nil {
		return solver.Zero
	}
	return solver.Dimension(*l)
}
