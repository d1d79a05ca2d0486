package engine

import "time"

// Параметры по умолчанию. Радиус зрения фиксирован для всех игроков:
// ядро не занимается индивидуальными характеристиками зрения.
const (
	DefaultVisionRadius = 8
	DefaultTickInterval = 100 * time.Millisecond
)

// Config хранит параметры запуска движка.
type Config struct {
	// Seed - зерно генератора случайностей (выбор точки спавна).
	// Явное зерно делает тесты и отладку воспроизводимыми.
	Seed int64

	// VisionRadius - максимальный радиус видимости в клетках.
	VisionRadius int

	// TickInterval - период тика симуляции.
	TickInterval time.Duration
}

// NewConfig создает конфиг по умолчанию (случайное зерно).
func NewConfig() Config {
	return Config{
		Seed:         time.Now().UnixNano(),
		VisionRadius: DefaultVisionRadius,
		TickInterval: DefaultTickInterval,
	}
}
