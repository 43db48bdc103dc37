package wowproto

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates a packet body, in the style of bytes.Buffer-backed
// builders: every method appends and cannot fail.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated body.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

// U16LE appends a little-endian 16-bit integer.
func (w *Writer) U16LE(v uint16) *Writer {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

// U16BE appends a big-endian 16-bit integer.
func (w *Writer) U16BE(v uint16) *Writer {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

// U32LE appends a little-endian 32-bit integer.
func (w *Writer) U32LE(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

// U32BE appends a big-endian 32-bit integer.
func (w *Writer) U32BE(v uint32) *Writer {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

// U64LE appends a little-endian 64-bit integer.
func (w *Writer) U64LE(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

// F32LE appends a little-endian IEEE-754 single-precision float.
func (w *Writer) F32LE(v float32) *Writer {
	return w.U32LE(math.Float32bits(v))
}

// CString appends s followed by a terminating 0x00.
func (w *Writer) CString(s string) *Writer {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
	return w
}

// RawBytes appends raw bytes verbatim.
func (w *Writer) RawBytes(b []byte) *Writer {
	w.buf.Write(b)
	return w
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) *Writer {
	w.buf.Write(make([]byte, n))
	return w
}
