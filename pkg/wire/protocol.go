package wire

import (
	"fmt"
	"io"

	"tilesight-server/internal/domain"
)

// FramePushed - маркер серверного (push) пакета: сервер шлет его по своей
// инициативе, а не в ответ на запрос.
const FramePushed byte = 0x00

// PacketType - тип серверного пакета.
type PacketType byte

const (
	// PacketLevelState - снимок видимой части уровня для одного клиента.
	PacketLevelState PacketType = 0x01
)

// ClientPacketType - тип клиентского пакета.
type ClientPacketType byte

const (
	// ClientPacketPlayerIntent - клиент замещает намерение своей сущности.
	ClientPacketPlayerIntent ClientPacketType = 0x01
)

// Разумные потолки при декодировании, чтобы испорченный кадр не заставил
// нас выделить гигабайты памяти.
const (
	maxRoomsPerFrame = 1 << 16
	maxTilesPerRoom  = 1 << 20
)

// EntityRef - сущность в кадре: идентификатор и тег класса.
type EntityRef struct {
	ID    int32
	Class string
}

// TileSnapshot - одна видимая клетка: комнатная позиция, состояние и
// полный список занимающих сущностей.
type TileSnapshot struct {
	Pos      domain.Position
	State    byte
	Entities []EntityRef
}

// RoomSnapshot - одна комната кадра: абсолютное размещение и видимые клетки.
type RoomSnapshot struct {
	Rect  domain.Rect
	Tiles []TileSnapshot
}

// LevelStateFrame - полный кадр LevelState: согласованный снимок всего,
// что видит один клиент на текущем тике.
//
// Идентификация получателя передается И как стабильный ID, И как
// абсолютная позиция: ID нужен клиенту, чтобы найти себя в списках
// сущностей, позиция - чтобы центрировать вид, не дожидаясь тайлов.
type LevelStateFrame struct {
	Time      uint64
	PlayerID  int32
	PlayerPos domain.Position
	Rooms     []RoomSnapshot
}

// Encode сериализует кадр в точном порядке протокола:
//
//	byte  0x00 (pushed)
//	byte  PacketLevelState
//	u64   время
//	i32   ID игрока, Position игрока
//	i32   roomCount { Rect, i32 tileCount { Position, byte state,
//	      u16 entityCount { i32 id, string class } } }
func (f *LevelStateFrame) Encode(out io.Writer) error {
	w := NewWriter(out)
	w.Byte(FramePushed)
	w.Byte(byte(PacketLevelState))
	w.U64(f.Time)
	w.I32(f.PlayerID)
	w.Position(f.PlayerPos)
	w.I32(int32(len(f.Rooms)))
	for _, room := range f.Rooms {
		w.Rect(room.Rect)
		w.I32(int32(len(room.Tiles)))
		for _, tile := range room.Tiles {
			w.Position(tile.Pos)
			w.Byte(tile.State)
			if len(tile.Entities) > 0xFFFF {
				return fmt.Errorf("wire: %d entities on one tile do not fit u16 count", len(tile.Entities))
			}
			w.U16(uint16(len(tile.Entities)))
			for _, e := range tile.Entities {
				w.I32(e.ID)
				w.String(e.Class)
			}
		}
	}
	return w.Err()
}

// DecodeLevelState разбирает кадр LevelState из потока. Используется
// тестами раунд-трипа и Go-клиентами.
func DecodeLevelState(in io.Reader) (*LevelStateFrame, error) {
	r := NewReader(in)

	if marker := r.Byte(); r.Err() == nil && marker != FramePushed {
		return nil, fmt.Errorf("wire: unexpected frame marker 0x%02x", marker)
	}
	if pt := r.Byte(); r.Err() == nil && PacketType(pt) != PacketLevelState {
		return nil, fmt.Errorf("wire: unexpected packet type 0x%02x", pt)
	}

	f := &LevelStateFrame{
		Time:      r.U64(),
		PlayerID:  r.I32(),
		PlayerPos: r.Position(),
	}

	roomCount := r.I32()
	if r.Err() == nil && (roomCount < 0 || roomCount > maxRoomsPerFrame) {
		return nil, fmt.Errorf("wire: implausible room count %d", roomCount)
	}
	for ri := int32(0); ri < roomCount && r.Err() == nil; ri++ {
		room := RoomSnapshot{Rect: r.Rect()}
		tileCount := r.I32()
		if r.Err() == nil && (tileCount < 0 || tileCount > maxTilesPerRoom) {
			return nil, fmt.Errorf("wire: implausible tile count %d", tileCount)
		}
		for ti := int32(0); ti < tileCount && r.Err() == nil; ti++ {
			tile := TileSnapshot{
				Pos:   r.Position(),
				State: r.Byte(),
			}
			entityCount := r.U16()
			for ei := uint16(0); ei < entityCount && r.Err() == nil; ei++ {
				tile.Entities = append(tile.Entities, EntityRef{
					ID:    r.I32(),
					Class: r.String(),
				})
			}
			room.Tiles = append(room.Tiles, tile)
		}
		f.Rooms = append(f.Rooms, room)
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("wire: truncated LevelState frame: %w", err)
	}
	return f, nil
}

// PlayerIntent - полезная нагрузка клиентского пакета PlayerIntent:
// желаемый шаг по двум осям.
type PlayerIntent struct {
	DX int32
	DY int32
}

// Encode сериализует намерение вместе с тегом пакета.
func (p *PlayerIntent) Encode(out io.Writer) error {
	w := NewWriter(out)
	w.Byte(byte(ClientPacketPlayerIntent))
	w.I32(p.DX)
	w.I32(p.DY)
	return w.Err()
}

// Decode разбирает полезную нагрузку намерения (тег уже прочитан
// диспетчером соединения).
func (p *PlayerIntent) Decode(in io.Reader) error {
	r := NewReader(in)
	p.DX = r.I32()
	p.DY = r.I32()
	if err := r.Err(); err != nil {
		return fmt.Errorf("wire: malformed PlayerIntent payload: %w", err)
	}
	return nil
}
