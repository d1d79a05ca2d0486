package domain

import "sync"

// Level - упорядоченный набор комнат плюс общий счетчик времени.
//
// Уровень владеет ЕДИНСТВЕННЫМ мьютексом, охраняющим и мутации мира, и
// чтения-снимки (расчет видимости + сериализация). Блокировка нарочно
// грубая (весь уровень целиком): мы меняем пропускную способность на
// тривиальную модель консистентности - ни одно соединение никогда не
// видит "рваную" мутацию посреди кадра.
type Level struct {
	mu sync.Mutex

	// Rooms - комнаты в стабильном порядке. Порядок не меняется за сеанс:
	// на него опираются кеши видимости соединений.
	Rooms []*Room

	// Time - монотонный счетчик тиков. Двигается только вперед и только
	// внешним драйвером симуляции; ядро значение лишь читает.
	Time uint64
}

// NewLevel создает уровень из комнат в переданном порядке.
func NewLevel(rooms ...*Room) *Level {
	return &Level{Rooms: rooms}
}

// Lock захватывает мьютекс уровня. Держать его нужно на ВСЁ время любой
// операции, которая должна выглядеть атомарной для других соединений.
func (l *Level) Lock() { l.mu.Lock() }

// Unlock освобождает мьютекс уровня.
func (l *Level) Unlock() { l.mu.Unlock() }

// AdvanceTime увеличивает счетчик тиков и возвращает новое значение.
// Вызывающий обязан держать блокировку уровня.
func (l *Level) AdvanceTime() uint64 {
	l.Time++
	return l.Time
}

// TileAt разрешает абсолютную позицию в тайл, перебирая комнаты в
// стабильном порядке. Вне всех комнат - общий сентинел Void.
func (l *Level) TileAt(abs Position) *Tile {
	for _, room := range l.Rooms {
		if room.Rect.Contains(abs) {
			return room.TileAtAbsolute(abs)
		}
	}
	return voidSentinel
}
