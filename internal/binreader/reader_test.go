package binreader

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func encodeHeader(tag uint16, length uint32) []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint16(b[0:2], tag)
	binary.LittleEndian.PutUint32(b[2:6], length)
	return b
}

func TestScalarRoundTrip(t *testing.T) {
	buf := make([]byte, 0)
	buf = append(buf, 0xAB)
	buf = append(buf, 0x34, 0x12)
	buf = append(buf, 0x78, 0x56, 0x34, 0x12)
	f32 := make([]byte, 4)
	binary.LittleEndian.PutUint32(f32, math.Float32bits(3.5))
	buf = append(buf, f32...)

	r := New(buf)
	if v, err := r.Uint8(); err != nil || v != 0xAB {
		t.Fatalf("Uint8 = %v, %v", v, err)
	}
	if v, err := r.Uint16(); err != nil || v != 0x1234 {
		t.Fatalf("Uint16 = %v, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0x12345678 {
		t.Fatalf("Uint32 = %v, %v", v, err)
	}
	if v, err := r.Float32(); err != nil || v != 3.5 {
		t.Fatalf("Float32 = %v, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestFixedStringTrimsNulPadding(t *testing.T) {
	r := New([]byte("KSFO\x00\x00\x00\x00"))
	s, err := r.FixedString(8)
	if err != nil {
		t.Fatal(err)
	}
	if s != "KSFO" {
		t.Fatalf("FixedString = %q", s)
	}
}

func TestReadPastEndIsEndOfStream(t *testing.T) {
	r := New([]byte{0x01})
	if _, err := r.Uint32(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("err = %v, want ErrEndOfStream", err)
	}
}

func TestWalkDispatchesKnownTagsAndSkipsUnknown(t *testing.T) {
	var buf []byte
	buf = append(buf, encodeHeader(1, 2)...)
	buf = append(buf, 0xAA, 0xBB)
	buf = append(buf, encodeHeader(2, 1)...)
	buf = append(buf, 0xCC)
	buf = append(buf, encodeHeader(1, 1)...)
	buf = append(buf, 0x42)

	r := New(buf)
	var sawTag1 [][]byte
	var unknown []uint16
	handlers := map[uint16]DispatchFunc{
		1: func(r *Reader, tag uint16, frameEnd int) error {
			start := r.Offset()
			sawTag1 = append(sawTag1, append([]byte{}, r.buf[start:frameEnd]...))
			return nil
		},
	}
	onUnknown := func(tag uint16, offset int) { unknown = append(unknown, tag) }

	if err := Walk(r, len(buf), handlers, onUnknown); err != nil {
		t.Fatal(err)
	}
	if len(sawTag1) != 2 {
		t.Fatalf("sawTag1 = %v, want 2 records", sawTag1)
	}
	if len(unknown) != 1 || unknown[0] != 2 {
		t.Fatalf("unknown = %v, want [2]", unknown)
	}
}

func TestFrameEndRejectsChildExceedingParent(t *testing.T) {
	r := New(make([]byte, 100))
	h := Header{Tag: 1, Length: 50}
	if _, err := r.FrameEnd(90, h, 100); err == nil {
		t.Fatal("expected error for child frame exceeding parent bounds")
	}
	var cf *CorruptedFrameError
	if _, err := r.FrameEnd(90, h, 100); !errors.As(err, &cf) {
		t.Fatalf("err = %v, want *CorruptedFrameError", err)
	}
}
