package morphology

import (
	"testing"

	"maxtree/pkg/neighborhood"
	"maxtree/pkg/raster"
)

func TestDilationSpreadsPeakToNeighbors(t *testing.T) {
	img := raster.NewFromData([]uint8{
		0, 0, 0,
		0, 9, 0,
		0, 0, 0,
	}, 3, 3, 1)
	dil := Dilation(img, neighborhood.Make2DN4())
	if dil.At(1, 0, 0) != 9 || dil.At(0, 1, 0) != 9 {
		t.Errorf("dilation did not spread the peak to its 4-neighbors")
	}
	if dil.At(0, 0, 0) != 0 {
		t.Errorf("dilation reached a non-neighbor corner: got %d", dil.At(0, 0, 0))
	}
}

func TestErosionTakesNeighborMinimum(t *testing.T) {
	img := raster.NewFromData([]uint8{
		9, 9, 9,
		9, 9, 9,
		9, 0, 9,
	}, 3, 3, 1)
	ero := Erosion(img, neighborhood.Make2DN4())
	if ero.At(1, 1, 0) != 0 {
		t.Errorf("erosion at center = %d, want 0 (neighbor of the 0 pixel)", ero.At(1, 1, 0))
	}
}

func TestGradientNonNegative(t *testing.T) {
	img := raster.NewFromData([]uint8{
		1, 5, 2,
		8, 3, 7,
		4, 6, 0,
	}, 3, 3, 1)
	grad := Gradient(img, neighborhood.Make2DN8())
	for i := 0; i < grad.Len(); i++ {
		if grad.AtOffset(i) < 0 {
			t.Fatalf("gradient produced a negative value at offset %d", i)
		}
	}
}

func TestGradientZeroOnFlatImage(t *testing.T) {
	img := raster.New[uint8](4, 4, 1)
	img.Fill(7)
	grad := Gradient(img, neighborhood.Make2DN8())
	for i := 0; i < grad.Len(); i++ {
		if grad.AtOffset(i) != 0 {
			t.Fatalf("gradient of a flat image is nonzero at offset %d: %d", i, grad.AtOffset(i))
		}
	}
}
