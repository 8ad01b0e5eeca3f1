package theme

import (
	"image/color"
	"testing"
)

func TestTileHex(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "#cdc1b4"},
		{2, "#eee4da"},
		{64, "#f65e3b"},
		{2048, "#edc22e"},
		{4096, FallbackHex},
		{3, FallbackHex},
	}

	for _, tt := range tests {
		if got := TileHex(tt.value); got != tt.want {
			t.Errorf("TileHex(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestTextHex(t *testing.T) {
	for _, v := range []int{2, 4} {
		if TextHex(v) != DarkTextHex {
			t.Errorf("TextHex(%d) should be dark", v)
		}
	}
	for _, v := range []int{8, 2048, 8192} {
		if TextHex(v) != LightTextHex {
			t.Errorf("TextHex(%d) should be light", v)
		}
	}
}

func TestRGBA(t *testing.T) {
	got, err := RGBA("#667eea")
	if err != nil {
		t.Fatalf("RGBA() failed: %v", err)
	}
	want := color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	if got != want {
		t.Errorf("RGBA(#667eea) = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "667eea", "#66", "#zzzzzz"} {
		if _, err := RGBA(bad); err == nil {
			t.Errorf("RGBA(%q) should fail", bad)
		}
	}
}

func TestTileStyleRenders(t *testing.T) {
	out := TileStyle(2048, 6).Render("2048")
	if out == "" {
		t.Error("TileStyle rendered nothing")
	}
}
