package legend

import (
	"image/color"
	"testing"
)

func TestNew_NormalisesCase(t *testing.T) {
	l, err := New([]string{"Ore", "WASTE"}, []color.RGBA{
		{R: 255, A: 255},
		{G: 128, A: 255},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := l.Names(); got[0] != "ore" || got[1] != "waste" {
		t.Errorf("expected lower-cased names, got %v", got)
	}
	if !l.Contains("ORE") || !l.Contains("ore") {
		t.Error("Contains should be case-insensitive")
	}
	if l.Contains("air") {
		t.Error("Contains reported an unlisted category")
	}
}

func TestHex(t *testing.T) {
	l, err := New([]string{"ore"}, []color.RGBA{{R: 0xab, G: 0xcd, B: 0xef, A: 0xff}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hex, ok := l.Hex("Ore")
	if !ok || hex != "#abcdefff" {
		t.Errorf("expected #abcdefff, got %q (ok=%v)", hex, ok)
	}
	if _, ok := l.Hex("missing"); ok {
		t.Error("Hex should miss for unlisted categories")
	}
}

func TestNew_DefaultColourAndErrors(t *testing.T) {
	l, err := New([]string{"a", "b"}, []color.RGBA{{R: 1, A: 255}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c, ok := l.Colour("b")
	if !ok || c != (color.RGBA{A: 255}) {
		t.Errorf("expected opaque black default, got %+v", c)
	}

	if _, err := New([]string{"a", "A"}, nil); err == nil {
		t.Error("expected duplicate-category error")
	}
	if _, err := New([]string{"a"}, make([]color.RGBA, 2)); err == nil {
		t.Error("expected error for more colours than names")
	}
}
