package text

import (
	"errors"
	"testing"
)

func TestPipeline_CreateMeasure(t *testing.T) {
	p := NewPipeline(NewFontSet(), 64)
	var block Block

	info, err := p.CreateMeasure("hello wide world", Style{Size: 16}, 1, &block)
	if err != nil {
		t.Fatalf("CreateMeasure() error = %v", err)
	}
	if info.Max.Width <= info.Min.Width {
		t.Errorf("Max.Width = %v, want > Min.Width = %v", info.Max.Width, info.Min.Width)
	}
	if info.Min.Height <= info.Max.Height {
		t.Errorf("Min.Height = %v, want > Max.Height = %v", info.Min.Height, info.Max.Height)
	}
	if !block.NeedsRerender() {
		t.Error("NeedsRerender() = false after CreateMeasure")
	}

	size, err := block.ComputeSize(info, info.Max.Width)
	if err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	if size != info.Max {
		t.Errorf("ComputeSize(max) = %+v, want %+v", size, info.Max)
	}
}

func TestPipeline_ScaleGrowsMetrics(t *testing.T) {
	p := NewPipeline(nil, 64)
	var b1, b2 Block
	one, err := p.CreateMeasure("scale", Style{Size: 10}, 1, &b1)
	if err != nil {
		t.Fatalf("CreateMeasure() error = %v", err)
	}
	two, err := p.CreateMeasure("scale", Style{Size: 10}, 2, &b2)
	if err != nil {
		t.Fatalf("CreateMeasure() error = %v", err)
	}
	if two.Max.Width <= one.Max.Width || two.Max.Height <= one.Max.Height {
		t.Errorf("scaled size %+v not larger than %+v", two.Max, one.Max)
	}
}

func TestPipeline_UnknownFont(t *testing.T) {
	p := NewPipeline(nil, 8)
	var block Block
	_, err := p.CreateMeasure("x", Style{Font: "Missing Sans"}, 1, &block)
	if !errors.Is(err, ErrNoSuchFont) {
		t.Errorf("CreateMeasure() error = %v, want ErrNoSuchFont", err)
	}
}

func TestPipeline_RegisteredFont(t *testing.T) {
	fonts := NewFontSet()
	fonts.Register("Go", DefaultSource())
	p := NewPipeline(fonts, 8)
	var block Block
	if _, err := p.CreateMeasure("x", Style{Font: "Go", LineHeight: 1.5}, 1, &block); err != nil {
		t.Errorf("CreateMeasure() error = %v", err)
	}
	if got := fonts.Names(); len(got) != 1 || got[0] != "Go" {
		t.Errorf("Names() = %v, want [Go]", got)
	}
}

func TestShaper_CachesAdvances(t *testing.T) {
	s := NewShaper(16)
	src := DefaultSource()
	a := s.Advance(src, "cache", 12, DirectionLTR)
	b := s.Advance(src, "cache", 12, DirectionLTR)
	if a <= 0 || a != b {
		t.Errorf("Advance() = %v then %v, want equal positive values", a, b)
	}
	if st := s.CacheStats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("CacheStats() hits=%d misses=%d, want 1/1", st.Hits, st.Misses)
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"", DirectionLTR},
		{"hello", DirectionLTR},
		{"שלום", DirectionRTL},
	}
	for _, tt := range tests {
		if got := DetectDirection(tt.in); got != tt.want {
			t.Errorf("DetectDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSource(t *testing.T) {
	src := DefaultSource()
	if src.Name() == "" {
		t.Error("Name() is empty")
	}
	m := src.Metrics(16)
	if m.Height <= 0 || m.Ascent <= 0 {
		t.Errorf("Metrics(16) = %+v, want positive values", m)
	}
}
