package domain

import "iter"

// Position - целочисленная точка на сетке уровня.
// Значимый тип (value type): копируется свободно, без алиасинга.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add возвращает новую позицию, сдвинутую на offset.
func (p Position) Add(offset Position) Position {
	return Position{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Sub возвращает новую позицию, сдвинутую на -offset.
// Используется для перевода абсолютных координат в комнатные.
func (p Position) Sub(offset Position) Position {
	return Position{X: p.X - offset.X, Y: p.Y - offset.Y}
}

// Shift возвращает новую позицию со смещением (dx, dy), не меняя текущую.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DistanceSquared возвращает квадрат евклидова расстояния до other.
// Мы сознательно НЕ извлекаем корень: все проверки радиуса сравнивают
// квадраты, чтобы остаться в целых числах.
func (p Position) DistanceSquared(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Rect - прямоугольник с полуоткрытыми границами:
// точка (x,y) принадлежит прямоугольнику, если X <= x < X+W и Y <= y < Y+H.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Origin возвращает левый верхний угол (точку привязки).
func (r Rect) Origin() Position {
	return Position{X: r.X, Y: r.Y}
}

// Right возвращает первую координату X ЗА правой границей.
func (r Rect) Right() int { return r.X + r.W }

// Bottom возвращает первую координату Y ЗА нижней границей.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains проверяет принадлежность точки (полуоткрытый интервал).
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects проверяет пересечение с другим прямоугольником.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Add возвращает прямоугольник, сдвинутый на offset
// (перевод из комнатных координат в абсолютные).
func (r Rect) Add(offset Position) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, W: r.W, H: r.H}
}

// Sub возвращает прямоугольник, сдвинутый на -offset
// (перевод из абсолютных координат в комнатные).
func (r Rect) Sub(offset Position) Rect {
	return Rect{X: r.X - offset.X, Y: r.Y - offset.Y, W: r.W, H: r.H}
}

// Line возвращает ленивую последовательность точек дискретной прямой
// (алгоритм Брезенхэма) от a до b, включая обе крайние точки.
//
// ВАЖНО: дискретизация зависит от направления обхода. Линия a->b и линия
// b->a могут проходить через разные клетки, поэтому видимость НЕ обязана
// быть симметричной. Это принятое свойство алгоритма, а не дефект.
func Line(a, b Position) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		dx := absInt(b.X - a.X)
		dy := -absInt(b.Y - a.Y)
		sx, sy := 1, 1
		if a.X > b.X {
			sx = -1
		}
		if a.Y > b.Y {
			sy = -1
		}

		x, y := a.X, a.Y
		err := dx + dy
		for {
			if !yield(Position{X: x, Y: y}) {
				return
			}
			if x == b.X && y == b.Y {
				return
			}
			e2 := 2 * err
			if e2 >= dy {
				err += dy
				x += sx
			}
			if e2 <= dx {
				err += dx
				y += sy
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
