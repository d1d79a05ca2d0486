// Package wire - двоичный протокол обмена с клиентом.
//
// Все многобайтовые значения кодируются big-endian (сетевой порядок).
// Строки - длина u16 плюс байты UTF-8. Position - два i32, Rect - четыре i32.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"tilesight-server/internal/domain"
)

// Writer пишет примитивы протокола в поток. Первая же ошибка "залипает":
// все последующие вызовы становятся no-op, а Err() её возвращает.
// Это позволяет сериализовать кадр без проверки ошибки на каждом поле.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter оборачивает произвольный io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err возвращает первую ошибку записи (nil, если всё прошло).
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(buf []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(buf)
}

// Byte пишет один байт.
func (w *Writer) Byte(v byte) {
	w.write([]byte{v})
}

// U16 пишет беззнаковое 16-битное значение.
func (w *Writer) U16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

// I32 пишет знаковое 32-битное значение.
func (w *Writer) I32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

// U64 пишет беззнаковое 64-битное значение.
func (w *Writer) U64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.write(buf[:])
}

// String пишет строку: длина u16 + байты UTF-8.
func (w *Writer) String(v string) {
	if len(v) > 0xFFFF {
		if w.err == nil {
			w.err = fmt.Errorf("wire: string of %d bytes does not fit u16 length", len(v))
		}
		return
	}
	w.U16(uint16(len(v)))
	w.write([]byte(v))
}

// Position пишет позицию (два i32: x, y).
func (w *Writer) Position(p domain.Position) {
	w.I32(int32(p.X))
	w.I32(int32(p.Y))
}

// Rect пишет прямоугольник (четыре i32: x, y, w, h).
func (w *Writer) Rect(r domain.Rect) {
	w.I32(int32(r.X))
	w.I32(int32(r.Y))
	w.I32(int32(r.W))
	w.I32(int32(r.H))
}

// Reader читает примитивы протокола из потока. Ошибки "залипают" так же,
// как у Writer: после первой все чтения возвращают нулевые значения.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader оборачивает произвольный io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err возвращает первую ошибку чтения (nil, если всё прошло).
func (r *Reader) Err() error { return r.err }

func (r *Reader) read(buf []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return false
	}
	return true
}

// Byte читает один байт.
func (r *Reader) Byte() byte {
	var buf [1]byte
	if !r.read(buf[:]) {
		return 0
	}
	return buf[0]
}

// U16 читает беззнаковое 16-битное значение.
func (r *Reader) U16() uint16 {
	var buf [2]byte
	if !r.read(buf[:]) {
		return 0
	}
	return binary.BigEndian.Uint16(buf[:])
}

// I32 читает знаковое 32-битное значение.
func (r *Reader) I32() int32 {
	var buf [4]byte
	if !r.read(buf[:]) {
		return 0
	}
	return int32(binary.BigEndian.Uint32(buf[:]))
}

// U64 читает беззнаковое 64-битное значение.
func (r *Reader) U64() uint64 {
	var buf [8]byte
	if !r.read(buf[:]) {
		return 0
	}
	return binary.BigEndian.Uint64(buf[:])
}

// String читает строку (длина u16 + байты).
func (r *Reader) String() string {
	n := r.U16()
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if !r.read(buf) {
		return ""
	}
	return string(buf)
}

// Position читает позицию (два i32).
func (r *Reader) Position() domain.Position {
	x := r.I32()
	y := r.I32()
	return domain.Position{X: int(x), Y: int(y)}
}

// Rect читает прямоугольник (четыре i32).
func (r *Reader) Rect() domain.Rect {
	x := r.I32()
	y := r.I32()
	w := r.I32()
	h := r.I32()
	return domain.Rect{X: int(x), Y: int(y), W: int(w), H: int(h)}
}
