package moon

import (
	"math"
	"testing"
)

func TestVec2_Ops(t *testing.T) {
	tests := []struct {
		name   string
		got    Vec2
		expect Vec2
	}{
		{"add", V2(1, 2).Add(V2(3, 4)), V2(4, 6)},
		{"sub", V2(5, 7).Sub(V2(2, 3)), V2(3, 4)},
		{"mul", V2(1, -2).Mul(3), V2(3, -6)},
		{"mulvec flip", V2(3, 4).MulVec(flipY), V2(3, -4)},
		{"div", V2(4, 6).Div(2), V2(2, 3)},
		{"ceil", V2(1.2, -1.2).Ceil(), V2(2, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Approx(tt.expect, 1e-10) {
				t.Errorf("got %v, want %v", tt.got, tt.expect)
			}
		})
	}
}

func TestVec3_Truncate(t *testing.T) {
	v := V2(1, 2).Extend(3)
	if v != V3(1, 2, 3) {
		t.Errorf("Extend(3) = %v, want (1, 2, 3)", v)
	}
	if got := v.Truncate(); got != V2(1, 2) {
		t.Errorf("Truncate() = %v, want (1, 2)", got)
	}
}

func TestRect_FromCenterSize(t *testing.T) {
	r := RectFromCenterSize(V2(10, 20), V2(4, 6))
	want := Rect{Min: V2(8, 17), Max: V2(12, 23)}
	if r != want {
		t.Errorf("RectFromCenterSize() = %v, want %v", r, want)
	}
	if r.Center() != V2(10, 20) || r.Size() != V2(4, 6) {
		t.Errorf("Center/Size = %v/%v", r.Center(), r.Size())
	}
}

func TestRect_Intersect(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name  string
		a, b  Rect
		want  Rect
		empty bool
	}{
		{
			name: "overlap",
			a:    Rect{Min: V2(0, 0), Max: V2(10, 10)},
			b:    Rect{Min: V2(5, 5), Max: V2(15, 15)},
			want: Rect{Min: V2(5, 5), Max: V2(10, 10)},
		},
		{
			name: "infinite y keeps finite y",
			a:    Rect{Min: V2(0, -inf), Max: V2(10, inf)},
			b:    Rect{Min: V2(-5, 2), Max: V2(5, 4)},
			want: Rect{Min: V2(0, 2), Max: V2(5, 4)},
		},
		{
			name:  "disjoint collapses",
			a:     Rect{Min: V2(0, 0), Max: V2(1, 1)},
			b:     Rect{Min: V2(5, 5), Max: V2(6, 6)},
			want:  Rect{Min: V2(1, 1), Max: V2(1, 1)},
			empty: true,
		},
		{
			name: "infinite is neutral",
			a:    InfiniteRect(),
			b:    Rect{Min: V2(1, 2), Max: V2(3, 4)},
			want: Rect{Min: V2(1, 2), Max: V2(3, 4)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got != tt.want {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
			if got.IsEmpty() != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got.IsEmpty(), tt.empty)
			}
		})
	}
}

func TestRect_Inflate(t *testing.T) {
	r := Rect{Min: V2(0, 0), Max: V2(10, 4)}
	if got, want := r.Inflate(2), (Rect{Min: V2(-2, -2), Max: V2(12, 6)}); got != want {
		t.Errorf("Inflate(2) = %v, want %v", got, want)
	}
	if got := r.Inflate(-3); !got.IsEmpty() || got.Min.Y > got.Max.Y {
		t.Errorf("Inflate(-3) = %v, want collapsed rect", got)
	}
}

func TestRect_ZeroIsEmpty(t *testing.T) {
	if !(Rect{}).IsEmpty() {
		t.Error("zero Rect should be empty")
	}
}
