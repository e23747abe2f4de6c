package scenefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/moon"
	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

const sample = `
targets:
  - name: main
    width: 800
    height: 600
  - name: overlay
    scale: 2
    width: 400
    height: 300
nodes:
  - name: root
    style:
      direction: column
      padding: [4]
      overflow_x: clip
      background: "#102030"
      corner_radius: 6
      outline: {color: "#fff", width: 2, offset: "10%"}
    children:
      - name: a
        z: 1
        rotation: 90
        style: {width: 100, height: 50}
      - name: b
        targets: [main]
        style: {width: 50%, height: auto, margin: [1, 2]}
      - name: label
        text: {value: "hello", size: 12, wrap: none}
      - name: icon
        content: [16, 16]
        override_clip: true
  - name: grid
    style:
      display: grid
      columns: [1fr, 20px, auto]
      gap: 3
`

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Targets, 2)

	s, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, 6, s.Len())

	root := s.NodeIDs["root"]
	st, ok := s.Style(root)
	require.True(t, ok)
	assert.Equal(t, solver.Column, st.Layout.FlexDirection)
	assert.Equal(t, solver.Length(4), st.Layout.Padding.Top)
	assert.Equal(t, solver.OverflowClip, st.Layout.Overflow.X)
	assert.Equal(t, solver.OverflowVisible, st.Layout.Overflow.Y)
	require.NotNil(t, st.Background)
	assert.Equal(t, moon.Hex("#102030"), *st.Background)
	assert.Equal(t, moon.CornersAll(6), st.CornerRadii)
	require.NotNil(t, st.Outline)
	assert.Equal(t, solver.Percent(0.1), st.Outline.Offset)

	b, _ := s.Style(s.NodeIDs["b"])
	assert.Equal(t, solver.Percent(0.5), b.Layout.Size.Width)
	assert.Equal(t, solver.Auto(), b.Layout.Size.Height)
	assert.Equal(t, solver.Length(1), b.Layout.Margin.Top)
	assert.Equal(t, solver.Length(2), b.Layout.Margin.Left)

	tr, _ := s.Transform(s.NodeIDs["a"])
	assert.Equal(t, 1.0, tr.Translation.Z)
	assert.InDelta(t, 1.5708, tr.Rotation, 1e-4)

	label := s.Text(s.NodeIDs["label"])
	require.NotNil(t, label)
	assert.Equal(t, text.WrapNone, label.Style.Wrap)
	assert.NotNil(t, s.Content(s.NodeIDs["icon"]).Measure())

	g, _ := s.Style(s.NodeIDs["grid"])
	assert.Equal(t, []solver.Track{solver.Fr(1), solver.Px(20), {Unit: solver.TrackAuto}}, g.Layout.GridTemplateColumns)
	assert.Equal(t, solver.Length(3), g.Layout.Gap.Width)
}

func TestBuild_RunsFrame(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)

	e := moon.NewEngine()
	rep, err := e.Update(context.Background(), s.Scene)
	require.NoError(t, err)
	assert.Empty(t, rep.Errors())

	main, ok := e.Stack(s.TargetIDs["main"])
	require.True(t, ok)
	overlay, ok := e.Stack(s.TargetIDs["overlay"])
	require.True(t, ok)
	assert.Contains(t, main.Entities, s.NodeIDs["b"])
	assert.NotContains(t, overlay.Entities, s.NodeIDs["b"])

	a, _ := s.Computed(s.NodeIDs["a"])
	assert.Equal(t, moon.V2(100, 50), a.Size)
}

func TestParse_DefaultTarget(t *testing.T) {
	f, err := Parse([]byte("nodes:\n  - style: {width: 10, height: 10}\n"))
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)
	_, ok := s.TargetIDs["main"]
	assert.True(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "nodes:\n  - colour: red\n"},
		{"bad length", "nodes:\n  - style: {width: wide}\n"},
		{"bad track", "nodes:\n  - style: {columns: [xfr]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown display", "nodes:\n  - style: {display: table}\n"},
		{"three edges", "nodes:\n  - style: {margin: [1, 2, 3]}\n"},
		{"bad color", "nodes:\n  - style: {background: \"#zz\"}\n"},
		{"unknown target", "nodes:\n  - targets: [side]\n"},
		{"duplicate node", "nodes:\n  - name: x\n  - name: x\n"},
		{"duplicate target", "targets:\n  - name: t\n  - name: t\nnodes: []\n"},
		{"bad content", "nodes:\n  - content: [1]\n"},
		{"bad wrap", "nodes:\n  - text: {value: x, wrap: sometimes}\n"},
		{"bad clip box", "nodes:\n  - style: {clip_box: margin}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = f.Build()
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Nodes, 2)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
