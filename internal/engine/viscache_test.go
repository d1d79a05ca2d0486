package engine

import (
	"testing"

	"tilesight-server/internal/domain"
	"tilesight-server/pkg/logger"
)

func init() {
	logger.Init()
}

// newFloorRoom создает комнату, целиком залитую полом.
func newFloorRoom(rect domain.Rect) *domain.Room {
	room := domain.NewRoom(rect)
	for _, tile := range room.Tiles() {
		tile.SetState(domain.Floor)
	}
	return room
}

func countVisible(c *VisibilityCache, now uint64) int {
	n := 0
	for range c.GetVisible(now) {
		n++
	}
	return n
}

func TestUpdateVisibility_OpenRoom(t *testing.T) {
	room := newFloorRoom(domain.Rect{W: 5, H: 5})
	cache := NewVisibilityCache(room)

	if !cache.UpdateVisibility(domain.Position{X: 2, Y: 2}, 10, 1) {
		t.Fatal("open room around the viewer must be reportable")
	}
	if got := countVisible(cache, 1); got != 25 {
		t.Errorf("expected all 25 tiles visible, got %d", got)
	}
	if got := cache.CountVisible(1); got != 25 {
		t.Errorf("CountVisible = %d, want 25", got)
	}
}

func TestUpdateVisibility_RoomOutOfRange(t *testing.T) {
	room := newFloorRoom(domain.Rect{X: 100, Y: 100, W: 4, H: 4})
	cache := NewVisibilityCache(room)

	// Наблюдатель далеко: комната целиком за радиусом -> нечего отправлять
	if cache.UpdateVisibility(domain.Position{X: 0, Y: 0}, 8, 1) {
		t.Fatal("room entirely out of range must not be reportable")
	}
	if got := countVisible(cache, 1); got != 0 {
		t.Errorf("expected no visible tiles, got %d", got)
	}
}

func TestGetVisible_OnlyCurrentTick(t *testing.T) {
	room := newFloorRoom(domain.Rect{W: 3, H: 3})
	cache := NewVisibilityCache(room)

	cache.UpdateVisibility(domain.Position{X: 1, Y: 1}, 10, 1)
	if got := countVisible(cache, 2); got != 0 {
		t.Errorf("stale stamps must not leak into tick 2, got %d tiles", got)
	}

	// Свежий пересчет на тике 2 снова делает клетки видимыми
	cache.UpdateVisibility(domain.Position{X: 1, Y: 1}, 10, 2)
	if got := countVisible(cache, 2); got != 9 {
		t.Errorf("expected 9 tiles on tick 2, got %d", got)
	}
}

func TestGetVisible_TracksViewerMovement(t *testing.T) {
	// Коридор 7x1 со стеной посередине: видимость зависит от стороны
	room := domain.NewRoom(domain.Rect{W: 7, H: 1})
	for _, tile := range room.Tiles() {
		tile.SetState(domain.Floor)
	}
	room.TileAt(domain.Position{X: 3, Y: 0}).SetState(domain.Wall)
	cache := NewVisibilityCache(room)

	cache.UpdateVisibility(domain.Position{X: 0, Y: 0}, 10, 1)
	if got := countVisible(cache, 1); got != 4 {
		t.Errorf("west side: expected tiles x=0..3 visible, got %d", got)
	}

	cache.UpdateVisibility(domain.Position{X: 6, Y: 0}, 10, 2)
	for tile := range cache.GetVisible(2) {
		if tile.Pos.X < 3 {
			t.Errorf("east viewer must not see tile %v behind the wall", tile.Pos)
		}
	}
}

// Тик 0 означает "никогда": свежий кеш весь заполнен нулями, и отчет на
// тике 0 не должен принимать их за видимость.
func TestVisibilityCache_TickZeroReportsNothing(t *testing.T) {
	room := newFloorRoom(domain.Rect{W: 4, H: 4})
	cache := NewVisibilityCache(room)

	if got := countVisible(cache, 0); got != 0 {
		t.Errorf("fresh cache reported %d tiles on tick 0", got)
	}
	if cache.CountVisible(0) != 0 {
		t.Error("CountVisible(0) must be 0 on a fresh cache")
	}
	if cache.UpdateVisibility(domain.Position{X: 1, Y: 1}, 10, 0) {
		t.Error("tick 0 must not be a reportable stamp")
	}
	if got := countVisible(cache, 0); got != 0 {
		t.Errorf("tick 0 after update reported %d tiles", got)
	}
}

func TestGetVisible_Restartable(t *testing.T) {
	room := newFloorRoom(domain.Rect{W: 3, H: 3})
	cache := NewVisibilityCache(room)
	cache.UpdateVisibility(domain.Position{X: 1, Y: 1}, 10, 1)

	// Двойной проход по одной и той же последовательности
	first := countVisible(cache, 1)
	second := countVisible(cache, 1)
	if first != second {
		t.Errorf("sequence must be restartable: %d != %d", first, second)
	}

	// Ранний выход не ломает последующие обходы
	for range cache.GetVisible(1) {
		break
	}
	if got := countVisible(cache, 1); got != first {
		t.Errorf("early break corrupted the sequence: %d != %d", got, first)
	}
}
