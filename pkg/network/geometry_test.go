package network

import "testing"

func TestRectEdges(t *testing.T) {
	tests := []struct {
		name       string
		rect       Rect
		wantRight  float64
		wantBottom float64
	}{
		{
			name:       "positive size",
			rect:       Rect{X: 10, Y: 20, W: 40, H: 60},
			wantRight:  50,
			wantBottom: 80,
		},
		{
			name:       "zero size",
			rect:       Rect{X: 10, Y: 10},
			wantRight:  10,
			wantBottom: 10,
		},
		{
			name:       "negative origin",
			rect:       Rect{X: -30, Y: -5, W: 30, H: 5},
			wantRight:  0,
			wantBottom: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Right(); got != tt.wantRight {
				t.Errorf("Right() = %v, want %v", got, tt.wantRight)
			}
			if got := tt.rect.Bottom(); got != tt.wantBottom {
				t.Errorf("Bottom() = %v, want %v", got, tt.wantBottom)
			}
		})
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 20, Y: 30, W: 60, H: 40}
	if r.CenterX() != 50 {
		t.Errorf("CenterX() = %v, want 50", r.CenterX())
	}
	if r.CenterY() != 50 {
		t.Errorf("CenterY() = %v, want 50", r.CenterY())
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X: 0, Y: 0, W: 100, H: 100}
	tests := []struct {
		name  string
		inner Rect
		want  bool
	}{
		{"inside", Rect{X: 10, Y: 10, W: 20, H: 20}, true},
		{"identical", outer, true},
		{"overlapping right", Rect{X: 90, Y: 10, W: 20, H: 20}, false},
		{"above", Rect{X: 10, Y: -5, W: 20, H: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds should be empty")
	}

	b.Add(Rect{X: 10, Y: 10, W: 10, H: 10})
	b.Add(Rect{X: -5, Y: 15, W: 10, H: 30})

	got := b.Rect()
	want := Rect{X: -5, Y: 10, W: 25, H: 35}
	if got != want {
		t.Errorf("Rect() = %+v, want %+v", got, want)
	}
	if b.Empty() {
		t.Error("Bounds should not be empty after Add")
	}
}
