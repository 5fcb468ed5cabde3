package sceneryadapter

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/flightdata/navdbc/internal/binreader"
	"github.com/flightdata/navdbc/internal/logx"
)

type builder struct {
	buf bytes.Buffer
}

func (b *builder) u8(v byte)      { b.buf.WriteByte(v) }
func (b *builder) u16(v uint16)   { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *builder) u32(v uint32)   { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *builder) f32(v float32)  { b.u32(math.Float32bits(v)) }
func (b *builder) f64(v float64)  { binary.Write(&b.buf, binary.LittleEndian, math.Float64bits(v)) }
func (b *builder) fixed(s string, n int) {
	field := make([]byte, n)
	copy(field, s)
	b.buf.Write(field)
}

// header reserves a tag+length pair and returns a closure that, once the
// body has been written, backpatches the length and appends the body to
// dst.
func withHeader(dst *builder, tag uint16, body func(*builder)) {
	var inner builder
	body(&inner)
	dst.u16(tag)
	dst.u32(uint32(inner.buf.Len()))
	dst.buf.Write(inner.buf.Bytes())
}

func TestReadAirportDecodesHeaderAndOneRunway(t *testing.T) {
	var outer builder
	outer.u32(packIdent("KSFO"))
	outer.f64(-122.375)
	outer.f64(37.625)
	outer.fixed("SAN FRANCISCO INTL", 40)

	withHeader(&outer, tagRunway, func(b *builder) {
		b.fixed("11L", 4)
		b.f64(-122.37)
		b.f64(37.62)
		b.f32(11870) // length ft
		b.f32(200)   // width ft
		b.f32(113)   // heading true
		b.f32(110)   // heading mag
		b.fixed("CONC", 4)
	})

	r := binreader.New(outer.buf.Bytes())
	log := logx.New("error", t.TempDir(), true)
	res, err := ReadAirport(r, outer.buf.Len(), AreaPolicy{}, log)
	if err != nil {
		t.Fatal(err)
	}
	if res.Airport.Ident != "KSFO" {
		t.Errorf("Ident = %q, want KSFO", res.Airport.Ident)
	}
	if len(res.RunwayEnds) != 1 {
		t.Fatalf("RunwayEnds = %v, want 1", res.RunwayEnds)
	}
	if res.RunwayEnds[0].Designator != "11L" {
		t.Errorf("Designator = %q, want 11L", res.RunwayEnds[0].Designator)
	}
}

func TestReadAirportLogsUnknownTagWithoutAborting(t *testing.T) {
	var outer builder
	outer.u32(packIdent("KOAK"))
	outer.f64(-122.2)
	outer.f64(37.7)
	outer.fixed("OAKLAND INTL", 40)

	withHeader(&outer, 0xFFFF, func(b *builder) { b.u32(0) })

	r := binreader.New(outer.buf.Bytes())
	log := logx.New("debug", t.TempDir(), true)
	res, err := ReadAirport(r, outer.buf.Len(), AreaPolicy{Legacy: false}, log)
	if err != nil {
		t.Fatalf("unexpected error for an unknown modern-era tag: %v", err)
	}
	if res.Airport.Ident != "KOAK" {
		t.Errorf("Ident = %q, want KOAK", res.Airport.Ident)
	}
}

// packIdent is the ident_test.go encoding scheme's inverse, used by
// these tests to build realistic on-disk bytes instead of hand-picking
// bit patterns for every case.
func packIdent(s string) uint32 {
	var packed uint32
	n := len(s)
	for i := 0; i < n && i < 5; i++ {
		idx := indexOf(identCharset, s[i])
		packed |= uint32(idx) << uint((4-i)*5)
	}
	return packed
}

func indexOf(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return 0
}
