package domain

import "iter"

// Room - прямоугольный массив тайлов с привязкой к уровню.
// Форма комнаты неизменна после создания: тайлы живут в одном
// непрерывном срезе, указатели на них стабильны весь сеанс.
type Room struct {
	// Rect - размещение комнаты в абсолютных координатах уровня.
	Rect Rect

	// tiles - построчный (row-major) массив W*H тайлов.
	tiles []Tile
}

// NewRoom создает комнату заданного размещения. Все клетки изначально Void;
// содержимое задаёт внешний генератор карт (вне ядра).
func NewRoom(rect Rect) *Room {
	r := &Room{
		Rect:  rect,
		tiles: make([]Tile, rect.W*rect.H),
	}
	for y := 0; y < rect.H; y++ {
		for x := 0; x < rect.W; x++ {
			t := &r.tiles[y*rect.W+x]
			t.Pos = Position{X: x, Y: y}
			t.room = r
		}
	}
	return r
}

// Index возвращает построчный индекс комнатной позиции.
// Тот же порядок используется кешем видимости, поэтому индексация
// обязана быть стабильной.
func (r *Room) Index(rel Position) int {
	return rel.Y*r.Rect.W + rel.X
}

// TileCount возвращает количество тайлов комнаты.
func (r *Room) TileCount() int { return len(r.tiles) }

// TileAt возвращает тайл по КОМНАТНОЙ позиции.
// За пределами границ - общий сентинел Void, никогда не nil.
func (r *Room) TileAt(rel Position) *Tile {
	if rel.X < 0 || rel.X >= r.Rect.W || rel.Y < 0 || rel.Y >= r.Rect.H {
		return voidSentinel
	}
	return &r.tiles[r.Index(rel)]
}

// TileAtAbsolute возвращает тайл по АБСОЛЮТНОЙ позиции уровня,
// переводя её в комнатную.
func (r *Room) TileAtAbsolute(abs Position) *Tile {
	return r.TileAt(abs.Sub(r.Rect.Origin()))
}

// Tiles возвращает ленивую последовательность (индекс, тайл) в стабильном
// построчном порядке. Последовательность конечна и перезапускаема:
// никаких отложенных побочных эффектов.
func (r *Room) Tiles() iter.Seq2[int, *Tile] {
	return func(yield func(int, *Tile) bool) {
		for i := range r.tiles {
			if !yield(i, &r.tiles[i]) {
				return
			}
		}
	}
}
