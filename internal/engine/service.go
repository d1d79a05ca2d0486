package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tilesight-server/internal/domain"
	"tilesight-server/pkg/logger"
)

// Service - драйвер симуляции: владеет уровнем и реестром соединений,
// двигает счетчик тиков и запускает исходящую синхронизацию каждого
// соединения. Ядро видимости само по себе время не двигает - оно лишь
// потребляет текущее значение Level.Time.
type Service struct {
	Level *domain.Level

	cfg Config
	rng *rand.Rand

	// mu охраняет реестр соединений и rng (выбор спавна).
	// Это НЕ блокировка мира: у мира своя, на уровне.
	mu    sync.Mutex
	conns map[*Connection]struct{}

	stop chan struct{}
	done chan struct{}
}

// NewService создает драйвер для уровня level.
func NewService(cfg Config, level *domain.Level) *Service {
	if cfg.VisionRadius <= 0 {
		cfg.VisionRadius = DefaultVisionRadius
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	return &Service{
		Level: level,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		conns: make(map[*Connection]struct{}),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Connect создает сеанс для нового клиента и регистрирует его.
// Ошибка спавна (уровень без пола) отклоняет сеанс целиком.
func (s *Service) Connect(sink Sink) (*Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := NewConnection(s.Level, sink, s.cfg, s.rng)
	if err != nil {
		return nil, err
	}
	s.conns[conn] = struct{}{}
	return conn, nil
}

// Disconnect снимает соединение с реестра и закрывает его сеанс.
func (s *Service) Disconnect(conn *Connection) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// ConnectionCount возвращает количество активных сеансов.
func (s *Service) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Start запускает цикл тиков в отдельной горутине.
func (s *Service) Start() {
	go s.run()
}

// Stop останавливает цикл тиков и дожидается его завершения.
func (s *Service) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Service) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"component":     "service",
		"tick_interval": s.cfg.TickInterval,
		"vision_radius": s.cfg.VisionRadius,
	}).Info("Simulation driver started")

	for {
		select {
		case <-s.stop:
			logger.Log.Info("Simulation driver stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick выполняет один шаг симуляции:
//
//  1. Под блокировкой уровня двигает время и применяет накопленные
//     намерения игроков.
//  2. После отпускания блокировки запускает исходящий тик каждого
//     соединения (каждый из них захватывает блокировку заново и видит
//     уже согласованный пост-шаговый мир).
func (s *Service) Tick() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	s.Level.Lock()
	s.Level.AdvanceTime()
	for _, c := range conns {
		s.applyIntent(c.Player())
	}
	s.Level.Unlock()

	for _, c := range conns {
		if err := c.SendVisibleLevelState(); err != nil {
			logger.Log.WithError(err).WithField("player_id", c.Player().ID).
				Warn("Failed to push level state")
		}
	}
}

// applyIntent применяет намерение сущности: один шаг на соседнюю клетку.
// Вызывающий держит блокировку уровня.
//
// Правила просты: шаг не дальше одной клетки по каждой оси, цель обязана
// быть полом. Всё остальное (ИИ, бой, скорость) - вне ядра.
func (s *Service) applyIntent(e *domain.Entity) {
	intent := e.TakeIntent()
	if intent == nil {
		return
	}
	// Сеанс мог закрыться между снимком реестра и захватом блокировки:
	// у отсоединенной сущности нет клетки, возвращать её в мир нельзя.
	if e.Tile() == nil {
		return
	}
	if intent.DX < -1 || intent.DX > 1 || intent.DY < -1 || intent.DY > 1 {
		logger.Log.WithFields(logrus.Fields{
			"player_id": e.ID,
			"dx":        intent.DX,
			"dy":        intent.DY,
		}).Warn("Rejecting out-of-range intent")
		return
	}
	if intent.DX == 0 && intent.DY == 0 {
		return
	}

	target := s.Level.TileAt(e.Pos.Shift(intent.DX, intent.DY))
	if target.State() != domain.Floor {
		logger.Log.WithFields(logrus.Fields{
			"player_id":  e.ID,
			"target_pos": e.Pos.Shift(intent.DX, intent.DY),
		}).Debug("Move blocked")
		return
	}
	e.MoveTo(target)
}
