package sceneryadapter

import "testing"

func TestDecodeIdentDecodesPackedCharacters(t *testing.T) {
	// Pack "KSFO" into the upper 4 groups of a 5-group field: K=11, S=19,
	// F=6, O=15 per identCharset's 1-indexed alphabet (index 0 is pad).
	var packed uint32
	packed |= uint32(11) << (4 * 5)
	packed |= uint32(19) << (3 * 5)
	packed |= uint32(6) << (2 * 5)
	packed |= uint32(15) << (1 * 5)

	got := decodeIdent(packed, 5)
	if got != "KSFO" {
		t.Errorf("decodeIdent = %q, want KSFO", got)
	}
}

func TestDecodeIdentSkipsPadGroups(t *testing.T) {
	var packed uint32
	packed |= uint32(11) << (1 * 5) // "K" in the second group, rest pad
	got := decodeIdent(packed, 2)
	if got != "K" {
		t.Errorf("decodeIdent = %q, want K", got)
	}
}

func TestDecodeIdentEmptyWhenAllPad(t *testing.T) {
	if got := decodeIdent(0, 5); got != "" {
		t.Errorf("decodeIdent(0) = %q, want empty", got)
	}
}
