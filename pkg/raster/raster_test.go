package raster

import "testing"

func TestOffsetCoordRoundTrip(t *testing.T) {
	img := New[uint8](4, 3, 2)
	for z := 0; z < 2; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				off := img.Offset(x, y, z)
				rx, ry, rz := img.Coord(off)
				if rx != x || ry != y || rz != z {
					t.Fatalf("Coord(Offset(%d,%d,%d)) = (%d,%d,%d)", x, y, z, rx, ry, rz)
				}
			}
		}
	}
}

func TestSetAtOffset(t *testing.T) {
	img := New[uint16](5, 5, 1)
	img.Set(2, 3, 0, 42)
	if v := img.At(2, 3, 0); v != 42 {
		t.Errorf("At(2,3,0) = %d, want 42", v)
	}
	if v := img.AtOffset(img.Offset(2, 3, 0)); v != 42 {
		t.Errorf("AtOffset = %d, want 42", v)
	}
}

func TestMinMax(t *testing.T) {
	img := NewFromData([]uint8{5, 1, 9, 3}, 4, 1, 1)
	lo, hi := img.MinMax()
	if lo != 1 || hi != 9 {
		t.Errorf("MinMax() = (%d,%d), want (1,9)", lo, hi)
	}
}

func TestCrop(t *testing.T) {
	img := NewFromData([]uint8{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, 3, 3, 1)
	cropped := img.Crop(1, 3, 1, 3, 0, 1)
	if w, h, d := cropped.Dims(); w != 2 || h != 2 || d != 1 {
		t.Fatalf("Crop dims = (%d,%d,%d), want (2,2,1)", w, h, d)
	}
	want := []uint8{5, 6, 8, 9}
	for i, v := range want {
		if cropped.AtOffset(i) != v {
			t.Errorf("cropped[%d] = %d, want %d", i, cropped.AtOffset(i), v)
		}
	}
}

func TestAddBordersPreservesOriginal(t *testing.T) {
	img := NewFromData([]uint8{1, 2, 3, 4}, 2, 2, 1)
	bordered := AddBorders(img, [3]int{1, 1, 0}, [3]int{1, 1, 0}, 0)
	bw, bh, _ := bordered.Dims()
	if bw != 4 || bh != 4 {
		t.Fatalf("bordered dims = (%d,%d), want (4,4)", bw, bh)
	}
	if bordered.At(1, 1, 0) != 1 || bordered.At(2, 2, 0) != 4 {
		t.Errorf("bordered did not preserve original content at expected offset")
	}
	if bordered.At(0, 0, 0) != 0 {
		t.Errorf("bordered corner = %d, want 0", bordered.At(0, 0, 0))
	}
}

func TestEqual(t *testing.T) {
	a := NewFromData([]uint8{1, 2, 3}, 3, 1, 1)
	b := NewFromData([]uint8{1, 2, 3}, 3, 1, 1)
	c := NewFromData([]uint8{1, 2, 4}, 3, 1, 1)
	if !Equal(a, b) {
		t.Error("Equal(a, b) = false, want true")
	}
	if Equal(a, c) {
		t.Error("Equal(a, c) = true, want false")
	}
}
