// Package dungeon собирает уровни из ASCII-шаблонов.
//
// Это минимальный внешний "генератор карт" для ядра синхронизации:
// никакой процедурной генерации, только явные шаблоны. Символы:
//
//	'#' - стена
//	'.' - пол
//	' ' - пустота (Void)
package dungeon

import (
	"fmt"

	"tilesight-server/internal/domain"
)

// BuildRoom строит комнату по шаблону rows с привязкой (x, y) в
// абсолютных координатах уровня. Все строки обязаны быть одной длины.
func BuildRoom(x, y int, rows []string) (*domain.Room, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("dungeon: empty room template")
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("dungeon: row %d is %d chars wide, want %d", i, len(row), width)
		}
	}

	room := domain.NewRoom(domain.Rect{X: x, Y: y, W: width, H: len(rows)})
	for ry, row := range rows {
		for rx, ch := range []byte(row) {
			state, err := parseTile(ch)
			if err != nil {
				return nil, fmt.Errorf("dungeon: row %d col %d: %w", ry, rx, err)
			}
			room.TileAt(domain.Position{X: rx, Y: ry}).SetState(state)
		}
	}
	return room, nil
}

func parseTile(ch byte) (domain.TileState, error) {
	switch ch {
	case '#':
		return domain.Wall, nil
	case '.':
		return domain.Floor, nil
	case ' ':
		return domain.Void, nil
	}
	return domain.Void, fmt.Errorf("unknown tile char %q", ch)
}

// Demo строит маленький демонстрационный уровень из двух комнат,
// разделенных пустотой. Используется cmd/server, чтобы серверу было
// что отдавать без внешнего генератора.
func Demo() (*domain.Level, error) {
	west, err := BuildRoom(0, 0, []string{
		"########",
		"#......#",
		"#......#",
		"#......#",
		"#......#",
		"########",
	})
	if err != nil {
		return nil, err
	}

	east, err := BuildRoom(12, 1, []string{
		"######",
		"#....#",
		"#....#",
		"######",
	})
	if err != nil {
		return nil, err
	}

	return domain.NewLevel(west, east), nil
}
