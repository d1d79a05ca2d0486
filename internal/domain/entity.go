package domain

import "sync/atomic"

// Классы сущностей, известные ядру. Класс - произвольная строка в
// протоколе, эти константы лишь фиксируют написание.
const (
	EntityClassPlayer = "player"
)

// entitySeq - глобальный источник идентификаторов. Простой атомарный
// счетчик вместо UUID: протоколу нужен компактный стабильный i32.
var entitySeq atomic.Int32

// NextEntityID выдает следующий уникальный идентификатор сущности.
func NextEntityID() int32 {
	return entitySeq.Add(1)
}

// Intent - запрошенное клиентом следующее действие.
// Пока единственный вид намерения - шаг на соседнюю клетку.
type Intent struct {
	DX int
	DY int
}

// Entity - минимальный контракт сущности, нужный ядру синхронизации:
// идентичность, позиция, занимаемый тайл и слот намерения.
//
// Поле tile - ПЕРВОИСТОЧНИК размещения. Список occupants у тайла -
// производный кеш, который чинится методами MoveTo/Detach.
type Entity struct {
	// ID - уникальный стабильный идентификатор (попадает в протокол как i32).
	ID int32

	// Class - тег класса ("player", "goblin", ...), попадает в протокол.
	Class string

	// Pos - абсолютная позиция на уровне. Обновляется при MoveTo.
	Pos Position

	tile *Tile

	// intent - почтовый ящик на один слот: запись всегда замещает
	// предыдущее значение целиком (last-write-wins). Атомарный указатель
	// позволяет приемному циклу соединения писать сюда конкурентно с
	// чтением шага симуляции, не портя значение.
	intent atomic.Pointer[Intent]
}

// NewEntity создает неразмещенную сущность заданного класса.
func NewEntity(class string) *Entity {
	return &Entity{ID: NextEntityID(), Class: class}
}

// Tile возвращает клетку, которую сущность занимает (nil, если не размещена).
func (e *Entity) Tile() *Tile { return e.tile }

// MoveTo переставляет сущность на клетку t: чистит список прежней клетки,
// переписывает первоисточник и регистрируется в новой. Позиция сущности
// становится абсолютной позицией клетки.
func (e *Entity) MoveTo(t *Tile) {
	if e.tile == t {
		return
	}
	if e.tile != nil {
		e.tile.RemoveEntity(e)
	}
	e.tile = t
	if t != nil {
		t.AddEntity(e)
		e.Pos = t.AbsPosition()
	}
}

// Detach снимает сущность с клетки и очищает её ссылку на тайл.
// Идемпотентен: повторный вызов безопасен (важно для каскадных выселений).
func (e *Entity) Detach() {
	if e.tile == nil {
		return
	}
	t := e.tile
	t.RemoveEntity(e)
	e.tile = nil
}

// SetIntent замещает намерение целиком (last-write-wins).
func (e *Entity) SetIntent(i *Intent) {
	e.intent.Store(i)
}

// TakeIntent атомарно забирает намерение, опустошая слот.
// Возвращает nil, если намерения нет.
func (e *Entity) TakeIntent() *Intent {
	return e.intent.Swap(nil)
}

// PendingIntent подсматривает намерение, не забирая его.
func (e *Entity) PendingIntent() *Intent {
	return e.intent.Load()
}
