package imageio

import (
	"bytes"
	"testing"

	"maxtree/pkg/raster"
)

func TestPGM8RoundTrip(t *testing.T) {
	img := raster.NewFromData([]uint8{0, 128, 255, 64, 32, 200}, 3, 2, 1)
	var buf bytes.Buffer
	if !WritePGM8(&buf, img) {
		t.Fatal("WritePGM8 failed")
	}
	got, ok := ReadPGM8(&buf)
	if !ok {
		t.Fatal("ReadPGM8 failed")
	}
	if !raster.Equal(img, got) {
		t.Error("round-tripped image differs from the original")
	}
}

func TestPGM16RoundTrip(t *testing.T) {
	img := raster.NewFromData([]uint16{0, 300, 65535, 1000}, 2, 2, 1)
	var buf bytes.Buffer
	if !WritePGM16(&buf, img) {
		t.Fatal("WritePGM16 failed")
	}
	got, ok := ReadPGM16(&buf)
	if !ok {
		t.Fatal("ReadPGM16 failed")
	}
	if !raster.Equal(img, got) {
		t.Error("round-tripped 16-bit image differs from the original")
	}
}

func TestPPMRoundTrip(t *testing.T) {
	red := raster.NewFromData([]uint8{10, 20, 30, 40}, 2, 2, 1)
	green := raster.NewFromData([]uint8{50, 60, 70, 80}, 2, 2, 1)
	blue := raster.NewFromData([]uint8{90, 100, 110, 120}, 2, 2, 1)
	var buf bytes.Buffer
	if !WritePPM(&buf, red, green, blue) {
		t.Fatal("WritePPM failed")
	}
	r, g, b, ok := ReadPPM(&buf)
	if !ok {
		t.Fatal("ReadPPM failed")
	}
	if !raster.Equal(red, r) || !raster.Equal(green, g) || !raster.Equal(blue, b) {
		t.Error("round-tripped PPM planes differ from the originals")
	}
}

func TestReadPGM8RejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("P2\n2 2\n255\n\x00\x00\x00\x00")
	if _, ok := ReadPGM8(buf); ok {
		t.Error("ReadPGM8 accepted a P2 (ASCII) file")
	}
}

func TestReadPGM8RejectsOversizedColormax(t *testing.T) {
	buf := bytes.NewBufferString("P5\n1 1\n65535\n\x00")
	if _, ok := ReadPGM8(buf); ok {
		t.Error("ReadPGM8 accepted a colormax >= 256")
	}
}

func TestHeaderSkipsComments(t *testing.T) {
	buf := bytes.NewBufferString("P5\n# a comment\n2 2\n# another\n255\n\x00\x01\x02\x03")
	img, ok := ReadPGM8(buf)
	if !ok {
		t.Fatal("ReadPGM8 failed to parse a header with comments")
	}
	if img.Width() != 2 || img.Height() != 2 {
		t.Errorf("dims = (%d,%d), want (2,2)", img.Width(), img.Height())
	}
}
