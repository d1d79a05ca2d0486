package engine

import (
	"iter"

	"tilesight-server/internal/domain"
)

// VisibilityCache помнит, какие клетки ОДНОЙ комнаты сейчас видит ОДИН
// наблюдатель. Создается по экземпляру на каждую комнату уровня при
// старте сеанса и живет до конца соединения, никогда не меняя размера.
//
// Политика отчетности: на каждом отчетном тике мы шлем ПОЛНЫЙ текущий
// видимый набор, а не поклеточный дифф. Мир может меняться каждый тик,
// а полный пересброс исключает целый класс багов с потерянными диффами.
// Память "исследованных" клеток (туман войны) - опциональное расширение,
// ядру не нужна.
type VisibilityCache struct {
	room *domain.Room

	// lastSeen - тик, на котором клетка последний раз была видима.
	// Индексация совпадает с построчным порядком Room.Tiles.
	// Ноль означает "никогда": тик 0 зарезервирован, реальные тики
	// начинаются с 1 (драйвер двигает время перед первой отправкой).
	lastSeen []uint64
}

// NewVisibilityCache создает кеш для комнаты room.
func NewVisibilityCache(room *domain.Room) *VisibilityCache {
	return &VisibilityCache{
		room:     room,
		lastSeen: make([]uint64, room.TileCount()),
	}
}

// Room возвращает комнату-владельца кеша.
func (c *VisibilityCache) Room() *domain.Room { return c.room }

// UpdateVisibility пересчитывает видимость всех клеток комнаты для
// наблюдателя в точке viewer (абсолютные координаты) и штампует
// видимые клетки временем now.
//
// Возвращает true, если комнате вообще есть что отправлять (видна хотя
// бы одна клетка): полностью невидимые комнаты вызывающий пропускает,
// экономя трафик.
func (c *VisibilityCache) UpdateVisibility(viewer domain.Position, maxRadius int, now uint64) bool {
	// Тик 0 зарезервирован под "никогда": штамповать им нельзя, иначе
	// видимые клетки стали бы неотличимы от никогда не виденных.
	if now == 0 {
		return false
	}
	anyVisible := false
	for i, t := range c.room.Tiles() {
		if t.IsVisibleFrom(viewer, maxRadius) {
			c.lastSeen[i] = now
			anyVisible = true
		}
	}
	return anyVisible
}

// GetVisible возвращает ленивую конечную последовательность клеток
// комнаты, видимых по состоянию на тик now. Последовательность
// перезапускаема: порядок - стабильный построчный порядок комнаты.
func (c *VisibilityCache) GetVisible(now uint64) iter.Seq[*domain.Tile] {
	return func(yield func(*domain.Tile) bool) {
		if now == 0 {
			return
		}
		for i, t := range c.room.Tiles() {
			if c.lastSeen[i] == now {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// CountVisible возвращает количество клеток, видимых на тик now.
// Нужен сериализатору: протокол требует счетчик ПЕРЕД списком клеток.
func (c *VisibilityCache) CountVisible(now uint64) int {
	if now == 0 {
		return 0
	}
	n := 0
	for _, seen := range c.lastSeen {
		if seen == now {
			n++
		}
	}
	return n
}
