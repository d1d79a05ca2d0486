package domain

import "slices"

// TileState - состояние клетки. Значения зафиксированы протоколом (§ wire),
// менять их нельзя.
type TileState byte

const (
	// Void - "ничто" за пределами комнат. Непроходимо и непрозрачно.
	Void TileState = 0
	// Wall - стена. Непроходима и непрозрачна, но её можно УВИДЕТЬ.
	Wall TileState = 1
	// Floor - пол. Единственное состояние, сквозь которое проходит взгляд.
	Floor TileState = 2
)

func (s TileState) String() string {
	switch s {
	case Void:
		return "void"
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	}
	return "unknown"
}

// voidSentinel - общая "заглушка" для любых запросов за пределами комнаты.
// Позволяет никогда не возвращать nil из поиска тайлов: код выше по стеку
// работает с ней как с обычной пустотой.
var voidSentinel = &Tile{state: Void}

// VoidTile возвращает общий сентинел-тайл состояния Void.
func VoidTile() *Tile { return voidSentinel }

// Tile - одна клетка сетки. Хранится внутри комнаты, позиция комнатная
// (относительная). Список занимающих сущностей - производный кеш:
// первоисточник размещения - поле tile самой сущности (см. Entity).
type Tile struct {
	// Pos - позиция относительно левого верхнего угла комнаты.
	Pos Position

	room      *Room
	state     TileState
	occupants []*Entity
}

// Room возвращает комнату-владельца (nil у сентинела).
func (t *Tile) Room() *Room { return t.room }

// State возвращает текущее состояние клетки.
func (t *Tile) State() TileState { return t.state }

// AbsPosition возвращает абсолютную (уровневую) позицию клетки.
// Тайл хранится в комнатных координатах, поэтому везде, где нужна
// абсолютная точка (LOS, протокол), перевод делается здесь.
func (t *Tile) AbsPosition() Position {
	if t.room == nil {
		return t.Pos
	}
	return t.room.Rect.Origin().Add(t.Pos)
}

// SetState меняет состояние клетки. При переходе в Void все занимающие
// сущности принудительно выселяются.
//
// Выселение может каскадно сокращать список прямо во время обхода,
// поэтому идем с конца и на каждом шаге перепроверяем границы:
// так ни одна сущность не будет пропущена.
func (t *Tile) SetState(newState TileState) {
	t.state = newState
	if newState != Void {
		return
	}
	for i := len(t.occupants) - 1; i >= 0; i-- {
		if i < len(t.occupants) {
			t.occupants[i].Detach()
		}
	}
}

// AddEntity добавляет сущность в список занимающих.
// No-op, если сущность сама не считает себя стоящей на этой клетке:
// это защита от двойной вставки и рассинхрона (указатель сущности -
// единственный первоисточник размещения).
func (t *Tile) AddEntity(e *Entity) {
	if e == nil || e.Tile() != t {
		return
	}
	if slices.Contains(t.occupants, e) {
		return
	}
	t.occupants = append(t.occupants, e)
}

// RemoveEntity убирает сущность из списка занимающих.
// No-op, если сущность стоит не здесь (устаревшее удаление).
func (t *Tile) RemoveEntity(e *Entity) {
	if e == nil || e.Tile() != t {
		return
	}
	for i, o := range t.occupants {
		if o == e {
			t.occupants = slices.Delete(t.occupants, i, i+1)
			return
		}
	}
}

// Entities возвращает список занимающих сущностей в порядке добавления.
func (t *Tile) Entities() []*Entity { return t.occupants }

// EntityCount возвращает количество занимающих сущностей.
func (t *Tile) EntityCount() int { return len(t.occupants) }

// Neighbour возвращает клетку со смещением offset, разрешая её через
// комнату-владельца. Никогда не падает: за пределами комнаты - сентинел.
func (t *Tile) Neighbour(offset Position) *Tile {
	if t.room == nil {
		return voidSentinel
	}
	return t.room.TileAt(t.Pos.Add(offset))
}

// IsVisibleFrom - ключевой предикат видимости.
//
// 1. Сразу отказ, если квадрат расстояния от origin (абсолютные координаты)
//    превышает maxRadius².
// 2. Иначе трассируем дискретную прямую Брезенхэма от origin до клетки.
// 3. Клетка видна, если КАЖДАЯ промежуточная точка строго между началом и
//    концом разрешается (через комнату-владельца) в Floor. Сама цель полом
//    быть не обязана: стену, на которую смотришь, видно.
//
// Void и Wall непрозрачны и обрывают луч. Симметрия видимости не
// гарантируется (см. Line) - это сохраняемое свойство.
func (t *Tile) IsVisibleFrom(origin Position, maxRadius int) bool {
	if t.room == nil {
		return false
	}
	target := t.AbsPosition()
	if origin.DistanceSquared(target) > maxRadius*maxRadius {
		return false
	}
	for p := range Line(origin, target) {
		if p == origin || p == target {
			continue
		}
		if t.room.TileAtAbsolute(p).State() != Floor {
			return false
		}
	}
	return true
}
