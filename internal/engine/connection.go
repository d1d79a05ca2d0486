package engine

import (
	"bytes"
	"errors"
	"math/rand"

	"github.com/sirupsen/logrus"

	"tilesight-server/internal/domain"
	"tilesight-server/pkg/logger"
	"tilesight-server/pkg/wire"
)

// ErrNoSpawnTile - на уровне нет ни одной клетки пола, спавнить некуда.
// Это фатальная ошибка конфигурации уровня: сеанс отклоняется при
// создании, а не падает на выборе из пустого списка.
var ErrNoSpawnTile = errors.New("engine: level has no floor tiles to spawn on")

// Sink - приемник исходящих кадров соединения. Реализуется транспортным
// слоем (websocket-клиентом); ядро о транспорте ничего не знает.
type Sink interface {
	SendFrame(frame []byte) error
}

// Connection - сеанс одного клиента: его сущность-игрок, ссылка на
// уровень и по кешу видимости на каждую комнату.
//
// Кеши создаются один раз при старте сеанса в порядке комнат уровня и
// больше не пересоздаются: порядок комнат стабилен весь сеанс.
type Connection struct {
	level  *domain.Level
	player *domain.Entity
	caches []*VisibilityCache
	sink   Sink
	radius int

	log *logrus.Entry
}

// NewConnection создает сеанс: выбирает точку спавна равномерно среди
// ВСЕХ клеток пола уровня (через внедренный rng - для воспроизводимости),
// размещает игрока и строит кеши видимости.
//
// Размещение игрока - первая мутация сеанса, выполняется под блокировкой
// уровня.
func NewConnection(level *domain.Level, sink Sink, cfg Config, rng *rand.Rand) (*Connection, error) {
	level.Lock()
	defer level.Unlock()

	// 1. Собираем все кандидатные клетки спавна.
	var floors []*domain.Tile
	for _, room := range level.Rooms {
		for _, t := range room.Tiles() {
			if t.State() == domain.Floor {
				floors = append(floors, t)
			}
		}
	}
	if len(floors) == 0 {
		return nil, ErrNoSpawnTile
	}

	// 2. Создаем и размещаем игрока.
	player := domain.NewEntity(domain.EntityClassPlayer)
	spawn := floors[rng.Intn(len(floors))]
	player.MoveTo(spawn)

	// 3. Кеш видимости на каждую комнату, в порядке комнат уровня.
	caches := make([]*VisibilityCache, 0, len(level.Rooms))
	for _, room := range level.Rooms {
		caches = append(caches, NewVisibilityCache(room))
	}

	c := &Connection{
		level:  level,
		player: player,
		caches: caches,
		sink:   sink,
		radius: cfg.VisionRadius,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "connection",
			"player_id": player.ID,
		}),
	}
	c.log.WithField("spawn_pos", player.Pos).Info("Session started")
	return c, nil
}

// Player возвращает сущность-игрока сеанса.
func (c *Connection) Player() *domain.Entity { return c.player }

// SendVisibleLevelState выполняет один исходящий тик:
//
//  1. Захватывает блокировку уровня.
//  2. Пересчитывает все кеши видимости; комнаты без единой видимой
//     клетки отбрасываются.
//  3. Сериализует кадр LevelState: только видимые комнаты и клетки,
//     с полными списками сущностей.
//  4. Отпускает блокировку и лишь потом сбрасывает байты в транспорт.
//
// Блокировка покрывает шаги 2-3 целиком: расчет видимости и его
// сериализация видят ОДИН согласованный снимок мира - ни одна сущность
// не сдвинется и ни одна клетка не сменит состояние посреди кадра.
func (c *Connection) SendVisibleLevelState() error {
	c.level.Lock()

	now := c.level.Time
	frame := &wire.LevelStateFrame{
		Time:      now,
		PlayerID:  c.player.ID,
		PlayerPos: c.player.Pos,
	}

	for _, cache := range c.caches {
		if !cache.UpdateVisibility(c.player.Pos, c.radius, now) {
			continue
		}
		room := wire.RoomSnapshot{
			Rect:  cache.Room().Rect,
			Tiles: make([]wire.TileSnapshot, 0, cache.CountVisible(now)),
		}
		for t := range cache.GetVisible(now) {
			snap := wire.TileSnapshot{
				Pos:   t.Pos,
				State: byte(t.State()),
			}
			for _, e := range t.Entities() {
				snap.Entities = append(snap.Entities, wire.EntityRef{ID: e.ID, Class: e.Class})
			}
			room.Tiles = append(room.Tiles, snap)
		}
		frame.Rooms = append(frame.Rooms, room)
	}

	var buf bytes.Buffer
	err := frame.Encode(&buf)

	c.level.Unlock()

	if err != nil {
		return err
	}
	return c.sink.SendFrame(buf.Bytes())
}

// HandlePacket обрабатывает один входящий кадр клиента. Вызывается
// приемным циклом транспорта конкурентно с исходящими тиками.
//
// Диспетчеризация по тегу. Неизвестные теги молча игнорируются, остаток
// кадра не читается: границы кадров держит транспорт, так что
// рассинхронизация потока невозможна. Испорченная полезная нагрузка
// лишь отбрасывает это намерение, соединение живет дальше.
func (c *Connection) HandlePacket(data []byte) {
	if len(data) == 0 {
		return
	}
	r := bytes.NewReader(data)
	tag, _ := r.ReadByte()

	switch wire.ClientPacketType(tag) {
	case wire.ClientPacketPlayerIntent:
		var p wire.PlayerIntent
		if err := p.Decode(r); err != nil {
			c.log.WithError(err).Warn("Malformed intent payload, dropping")
			return
		}
		// Запись замещает предыдущее намерение целиком (last-write-wins).
		c.player.SetIntent(&domain.Intent{DX: int(p.DX), DY: int(p.DY)})

	default:
		c.log.WithField("packet_type", tag).Debug("Unknown client packet type, ignoring")
	}
}

// Close завершает сеанс: снимает сущность с клетки под блокировкой
// уровня. После этого её идентификатор не появится ни в одном будущем
// кадре видимости.
func (c *Connection) Close() {
	c.level.Lock()
	c.player.Detach()
	c.level.Unlock()
	c.log.Info("Session closed")
}
