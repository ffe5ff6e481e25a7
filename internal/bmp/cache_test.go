package bmp

import (
	"fmt"
	"testing"
)

func TestCacheReturnsSameImage(t *testing.T) {
	data := buildBMP(t, [][3]uint8{{200, 0, 0}}, [][]uint8{{0}}, false)
	c := NewCache()

	first, err := c.Decode("icon.bmp", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := c.Decode("icon.bmp", data)
	if err != nil {
		t.Fatalf("Decode cached: %v", err)
	}
	if first != second {
		t.Fatal("cached Decode returned a different image pointer")
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	c := NewCache()
	if _, err := c.Decode("bad", []byte("not a bmp")); err == nil {
		t.Fatal("Decode of garbage succeeded, want error")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d after failed decode, want 0", c.Len())
	}
}

func TestCacheFlushesWhenFull(t *testing.T) {
	data := buildBMP(t, [][3]uint8{{200, 0, 0}}, [][]uint8{{0}}, false)
	c := NewCache()

	for i := 0; i < maxCacheEntries; i++ {
		if _, err := c.Decode(fmt.Sprintf("icon-%d.bmp", i), data); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
	}
	if c.Len() != maxCacheEntries {
		t.Fatalf("Len = %d, want %d", c.Len(), maxCacheEntries)
	}

	if _, err := c.Decode("one-more.bmp", data); err != nil {
		t.Fatalf("Decode past limit: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len after flush = %d, want 1", c.Len())
	}
}
