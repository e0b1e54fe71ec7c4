package neighborhood

import "testing"

func TestMake2DN8Len(t *testing.T) {
	n := Make2DN8()
	if n.Len() != 8 {
		t.Errorf("Make2DN8 has %d displacements, want 8", n.Len())
	}
	for _, d := range n.Deltas() {
		if d.DX == 0 && d.DY == 0 {
			t.Error("Make2DN8 includes the origin")
		}
	}
}

func TestMake2DN4Len(t *testing.T) {
	if n := Make2DN4(); n.Len() != 4 {
		t.Errorf("Make2DN4 has %d displacements, want 4", n.Len())
	}
}

func TestMake3DN6N18N26(t *testing.T) {
	cases := []struct {
		build func() *Neighborhood
		want  int
	}{
		{Make3DN6, 6},
		{Make3DN18, 18},
		{Make3DN26, 26},
	}
	for _, c := range cases {
		if got := c.build().Len(); got != c.want {
			t.Errorf("got %d displacements, want %d", got, c.want)
		}
	}
}

func TestBindToOffsets(t *testing.T) {
	n := Make2DN4()
	n.BindTo(10, 10)
	offsets := n.Offsets()
	if len(offsets) != 4 {
		t.Fatalf("got %d offsets, want 4", len(offsets))
	}
	want := map[int]bool{-1: true, 1: true, -10: true, 10: true}
	for _, off := range offsets {
		if !want[off] {
			t.Errorf("unexpected offset %d for 10-wide image", off)
		}
	}
}

func TestOffsetsPanicsBeforeBind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Offsets() did not panic on an unbound neighborhood")
		}
	}()
	New().Offsets()
}

func TestPadWidths(t *testing.T) {
	n := Make2DN8()
	neg, pos := n.PadWidths()
	if neg != [3]int{1, 1, 0} || pos != [3]int{1, 1, 0} {
		t.Errorf("PadWidths() = (%v, %v), want ({1,1,0}, {1,1,0})", neg, pos)
	}
}

func TestMakeEuclideanBall2DExcludesOrigin(t *testing.T) {
	n := MakeEuclideanBall2D(2)
	for _, d := range n.Deltas() {
		if d.DX == 0 && d.DY == 0 {
			t.Error("MakeEuclideanBall2D includes the origin")
		}
	}
	if n.Len() == 0 {
		t.Error("MakeEuclideanBall2D(2) produced no displacements")
	}
}
