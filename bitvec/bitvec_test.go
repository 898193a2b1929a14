package bitvec

import (
	"bytes"
	"errors"
	"testing"
)

func TestFromBytesPadding(t *testing.T) {
	v, err := FromBytes([]byte{0x01, 0x80}, 24)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if v.Len() != 24 {
		t.Fatalf("expected width 24, got %d", v.Len())
	}
	want := "000000000000000110000000"
	if v.String() != want {
		t.Errorf("got %s, want %s", v.String(), want)
	}
	if !bytes.Equal(v.Bytes(), []byte{0x01, 0x80}) {
		t.Errorf("Bytes() = %x, want 0180", v.Bytes())
	}
}

func TestFromBytesTooWide(t *testing.T) {
	_, err := FromBytes([]byte("hello"), 32)
	if !errors.Is(err, ErrWidth) {
		t.Errorf("expected ErrWidth, got %v", err)
	}
}

func TestFromBits(t *testing.T) {
	v, err := FromBits([]uint8{1, 0, 1, 1})
	if err != nil {
		t.Fatalf("FromBits failed: %v", err)
	}
	if v.String() != "1011" {
		t.Errorf("got %s, want 1011", v.String())
	}
	if !bytes.Equal(v.Bytes(), []byte{0x0b}) {
		t.Errorf("Bytes() = %x, want 0b", v.Bytes())
	}

	if _, err := FromBits([]uint8{0, 2}); !errors.Is(err, ErrBitValue) {
		t.Errorf("expected ErrBitValue, got %v", err)
	}
}

func TestSetAndBit(t *testing.T) {
	v, _ := New(13)
	v.Set(0, true)
	v.Set(12, true)
	v.Set(5, true)
	v.Set(5, false)
	if !v.Bit(0) || !v.Bit(12) || v.Bit(5) {
		t.Errorf("unexpected bits: %s", v.String())
	}
	// Bit 0 is the most significant of 13 bits
	if !bytes.Equal(v.Bytes(), []byte{0x10, 0x01}) {
		t.Errorf("Bytes() = %x, want 1001", v.Bytes())
	}
}

func TestIndexOutOfRange(t *testing.T) {
	v, _ := New(8)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of range index")
		}
	}()
	v.Bit(8)
}

func TestNegativeWidth(t *testing.T) {
	if _, err := New(-1); !errors.Is(err, ErrWidth) {
		t.Errorf("expected ErrWidth, got %v", err)
	}
}

func TestBytesDropsLeadingZeros(t *testing.T) {
	v, _ := FromBytes([]byte{0x00, 0x00, 0x41}, 40)
	if !bytes.Equal(v.Bytes(), []byte{0x41}) {
		t.Errorf("Bytes() = %x, want 41", v.Bytes())
	}

	empty, _ := New(16)
	if len(empty.Bytes()) != 0 {
		t.Errorf("expected empty bytes, got %x", empty.Bytes())
	}
}

func TestBitsRoundTrip(t *testing.T) {
	v, _ := FromBytes([]byte("Hi"), 20)
	w, err := FromBits(v.Bits())
	if err != nil {
		t.Fatal(err)
	}
	if w.String() != v.String() {
		t.Errorf("got %s, want %s", w.String(), v.String())
	}
}

// FuzzBitVector checks that encoding into a padded vector preserves the value
func FuzzBitVector(f *testing.F) {
	f.Add([]byte{}, 0)
	f.Add([]byte("abc"), 8)
	f.Add([]byte{0xff}, 3)

	f.Fuzz(func(t *testing.T, msg []byte, extra int) {
		if extra < 0 || extra > 64 || len(msg) > 256 {
			return
		}
		n := len(msg)*8 + extra
		v, err := FromBytes(msg, n)
		if err != nil {
			t.Fatalf("FromBytes failed: %v", err)
		}
		if v.Len() != n {
			t.Fatalf("width %d, want %d", v.Len(), n)
		}
		trimmed := bytes.TrimLeft(msg, "\x00")
		if !bytes.Equal(v.Bytes(), trimmed) {
			t.Fatalf("Bytes() = %x, want %x", v.Bytes(), trimmed)
		}
	})
}
