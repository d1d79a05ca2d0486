package domain

import "testing"

func TestRectContains_HalfOpen(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 5}

	// Левая/верхняя границы включены
	if !r.Contains(Position{X: 2, Y: 3}) {
		t.Error("top-left corner must be contained")
	}
	if !r.Contains(Position{X: 5, Y: 7}) {
		t.Error("last interior point must be contained")
	}

	// Правая/нижняя границы исключены (полуоткрытый интервал)
	if r.Contains(Position{X: 6, Y: 3}) {
		t.Error("right edge must be excluded")
	}
	if r.Contains(Position{X: 2, Y: 8}) {
		t.Error("bottom edge must be excluded")
	}
	if r.Contains(Position{X: 1, Y: 3}) || r.Contains(Position{X: 2, Y: 2}) {
		t.Error("points before origin must be excluded")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}

	cases := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 2, Y: 2, W: 4, H: 4}, true},
		{"touching edge", Rect{X: 4, Y: 0, W: 2, H: 2}, false}, // полуоткрытые границы: касание не пересечение
		{"disjoint", Rect{X: 10, Y: 10, W: 2, H: 2}, false},
		{"contained", Rect{X: 1, Y: 1, W: 2, H: 2}, true},
	}
	for _, tc := range cases {
		if got := a.Intersects(tc.b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRectTranslation(t *testing.T) {
	r := Rect{X: 3, Y: 4, W: 5, H: 6}
	offset := Position{X: 10, Y: 20}

	moved := r.Add(offset)
	if moved.X != 13 || moved.Y != 24 || moved.W != 5 || moved.H != 6 {
		t.Errorf("Add: got %+v", moved)
	}
	if back := moved.Sub(offset); back != r {
		t.Errorf("Sub must invert Add: got %+v", back)
	}
}

func TestDistanceSquared(t *testing.T) {
	a := Position{X: 1, Y: 2}
	b := Position{X: 4, Y: 6}
	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("DistanceSquared = %d, want 25", got)
	}
	if got := a.DistanceSquared(a); got != 0 {
		t.Errorf("DistanceSquared to self = %d, want 0", got)
	}
	// Симметрично, в отличие от видимости
	if a.DistanceSquared(b) != b.DistanceSquared(a) {
		t.Error("DistanceSquared must be symmetric")
	}
}

func collectLine(a, b Position) []Position {
	var out []Position
	for p := range Line(a, b) {
		out = append(out, p)
	}
	return out
}

func TestLine_IncludesEndpoints(t *testing.T) {
	pts := collectLine(Position{X: 0, Y: 0}, Position{X: 3, Y: 0})
	if len(pts) != 4 {
		t.Fatalf("expected 4 points, got %v", pts)
	}
	if pts[0] != (Position{X: 0, Y: 0}) || pts[3] != (Position{X: 3, Y: 0}) {
		t.Errorf("endpoints missing: %v", pts)
	}
}

func TestLine_SinglePoint(t *testing.T) {
	pts := collectLine(Position{X: 5, Y: 5}, Position{X: 5, Y: 5})
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %v", pts)
	}
}

// Дискретизация зависит от направления: прямая A->B и B->A могут
// проходить через разные клетки. Тест фиксирует это свойство.
func TestLine_DirectionDependent(t *testing.T) {
	forward := collectLine(Position{X: 0, Y: 0}, Position{X: 2, Y: 1})
	backward := collectLine(Position{X: 2, Y: 1}, Position{X: 0, Y: 0})

	if forward[1] != (Position{X: 1, Y: 1}) {
		t.Errorf("forward midpoint = %v, want (1,1)", forward[1])
	}
	if backward[1] != (Position{X: 1, Y: 0}) {
		t.Errorf("backward midpoint = %v, want (1,0)", backward[1])
	}
}
