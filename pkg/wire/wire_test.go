package wire

import (
	"bytes"
	"reflect"
	"testing"

	"tilesight-server/internal/domain"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Byte(0x7F)
	w.U16(65535)
	w.I32(-123456)
	w.U64(1 << 62)
	w.String("goblin")
	w.String("")
	w.Position(domain.Position{X: -3, Y: 14})
	w.Rect(domain.Rect{X: 1, Y: 2, W: 3, H: 4})
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	if got := r.Byte(); got != 0x7F {
		t.Errorf("Byte = %#x", got)
	}
	if got := r.U16(); got != 65535 {
		t.Errorf("U16 = %d", got)
	}
	if got := r.I32(); got != -123456 {
		t.Errorf("I32 = %d", got)
	}
	if got := r.U64(); got != 1<<62 {
		t.Errorf("U64 = %d", got)
	}
	if got := r.String(); got != "goblin" {
		t.Errorf("String = %q", got)
	}
	if got := r.String(); got != "" {
		t.Errorf("empty String = %q", got)
	}
	if got := r.Position(); got != (domain.Position{X: -3, Y: 14}) {
		t.Errorf("Position = %v", got)
	}
	if got := r.Rect(); got != (domain.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("Rect = %v", got)
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestReader_StickyErrorOnTruncation(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x00, 0x01})) // на i32 не хватает
	_ = r.I32()
	if r.Err() == nil {
		t.Fatal("expected error on truncated input")
	}
	// Последующие чтения - нулевые значения, ошибка не затирается
	if got := r.U64(); got != 0 {
		t.Errorf("read after error = %d, want 0", got)
	}
}

// Синтетический мир: 2 комнаты, 3 видимых тайла, 1 сущность.
func TestLevelStateRoundTrip(t *testing.T) {
	original := &LevelStateFrame{
		Time:      77,
		PlayerID:  5,
		PlayerPos: domain.Position{X: 2, Y: 3},
		Rooms: []RoomSnapshot{
			{
				Rect: domain.Rect{X: 0, Y: 0, W: 4, H: 4},
				Tiles: []TileSnapshot{
					{
						Pos:   domain.Position{X: 2, Y: 3},
						State: byte(domain.Floor),
						Entities: []EntityRef{
							{ID: 5, Class: "player"},
						},
					},
					{Pos: domain.Position{X: 3, Y: 3}, State: byte(domain.Wall)},
				},
			},
			{
				Rect: domain.Rect{X: 10, Y: 0, W: 3, H: 3},
				Tiles: []TileSnapshot{
					{Pos: domain.Position{X: 0, Y: 1}, State: byte(domain.Floor)},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeLevelState(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestLevelStateRoundTrip_EmptyFrame(t *testing.T) {
	original := &LevelStateFrame{Time: 1, PlayerID: 9, PlayerPos: domain.Position{X: 1, Y: 1}}

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeLevelState(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Time != 1 || len(decoded.Rooms) != 0 {
		t.Errorf("empty frame mismatch: %+v", decoded)
	}
}

func TestDecodeLevelState_BadMarker(t *testing.T) {
	if _, err := DecodeLevelState(bytes.NewReader([]byte{0x42, 0x01})); err == nil {
		t.Fatal("expected error on non-pushed frame marker")
	}
}

func TestDecodeLevelState_BadPacketType(t *testing.T) {
	if _, err := DecodeLevelState(bytes.NewReader([]byte{FramePushed, 0x99})); err == nil {
		t.Fatal("expected error on unexpected packet type")
	}
}

func TestDecodeLevelState_Truncated(t *testing.T) {
	frame := &LevelStateFrame{
		Time: 5, PlayerID: 1, PlayerPos: domain.Position{X: 0, Y: 0},
		Rooms: []RoomSnapshot{{
			Rect:  domain.Rect{W: 2, H: 2},
			Tiles: []TileSnapshot{{State: byte(domain.Floor)}},
		}},
	}
	var buf bytes.Buffer
	if err := frame.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	cut := buf.Bytes()[:buf.Len()-3]
	if _, err := DecodeLevelState(bytes.NewReader(cut)); err == nil {
		t.Fatal("expected error on truncated frame")
	}
}

func TestEncode_EntityCountOverflow(t *testing.T) {
	frame := &LevelStateFrame{
		Rooms: []RoomSnapshot{{
			Rect: domain.Rect{W: 1, H: 1},
			Tiles: []TileSnapshot{{
				State:    byte(domain.Floor),
				Entities: make([]EntityRef, 0x10000), // на один больше, чем влезает в u16
			}},
		}},
	}
	var buf bytes.Buffer
	if err := frame.Encode(&buf); err == nil {
		t.Fatal("entity count above u16 must fail, not wrap around")
	}
}

func TestPlayerIntentRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	original := PlayerIntent{DX: -1, DY: 1}
	if err := original.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	if tag := r.Byte(); ClientPacketType(tag) != ClientPacketPlayerIntent {
		t.Fatalf("tag = %#x", tag)
	}

	var decoded PlayerIntent
	if err := decoded.Decode(&buf); err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestPlayerIntent_DecodeTruncated(t *testing.T) {
	var p PlayerIntent
	if err := p.Decode(bytes.NewReader([]byte{0x00, 0x00})); err == nil {
		t.Fatal("expected error on truncated payload")
	}
}
