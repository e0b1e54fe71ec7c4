package tree

import (
	"math"
	"testing"

	"maxtree/pkg/raster"
)

// singlePeak builds a flat 3x3 plateau of level 1 with a single level-5
// peak at its center, 8-connected.
func singlePeak() *raster.Image[uint8] {
	return raster.NewFromData([]uint8{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}, 3, 3, 1)
}

func TestRootIsSelfParent(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	if !tr.Root.IsRoot() {
		t.Error("root.IsRoot() = false")
	}
	if tr.Root.Parent != tr.Root {
		t.Error("root.Parent is not the root itself")
	}
}

func TestAggregatedAreaCoversEveryPixel(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	if tr.Root.Area != int64(img.Len()) {
		t.Errorf("root.Area = %d, want %d", tr.Root.Area, img.Len())
	}
}

func TestSinglePeakHasOneChild(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	if len(tr.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(tr.Root.Children))
	}
	peak := tr.Root.Children[0]
	if peak.OriH != 5 {
		t.Errorf("peak node level = %d, want 5", peak.OriH)
	}
	if peak.Area != 1 {
		t.Errorf("peak node area = %d, want 1", peak.Area)
	}
}

func TestDirectReconstructionRoundTripsWhenUnfiltered(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	out := tr.Reconstruct(RuleDirect)
	if !raster.Equal(img, out) {
		t.Error("DIRECT reconstruction of an unfiltered tree did not reproduce the input")
	}
}

func TestMinReconstructionRoundTripsWhenUnfiltered(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	out := tr.Reconstruct(RuleMin)
	if !raster.Equal(img, out) {
		t.Error("MIN reconstruction of an unfiltered tree did not reproduce the input")
	}
}

func TestAreaFilteringCollapsesSmallPeakUnderMin(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	tr.AreaFiltering(2, 1<<62)

	peak := tr.Root.Children[0]
	if peak.Active {
		t.Fatal("expected the 1-pixel peak to be deactivated by an area-min of 2")
	}
	if !tr.Root.Active {
		t.Fatal("expected the 8-pixel root to remain active")
	}

	out := tr.Reconstruct(RuleMin)
	for i := 0; i < out.Len(); i++ {
		if out.AtOffset(i) != 1 {
			t.Fatalf("offset %d = %d after filtering, want 1 (collapsed to root level)", i, out.AtOffset(i))
		}
	}
}

func TestRestoreReactivatesAndResetsLevel(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	peak := tr.Root.Children[0]
	peak.H = 9
	tr.SetFalse()
	if tr.Root.Active || peak.Active {
		t.Fatal("SetFalse did not deactivate the whole tree")
	}
	tr.Restore()
	if !tr.Root.Active || !peak.Active {
		t.Fatal("Restore did not reactivate the whole tree")
	}
	if peak.H != peak.OriH {
		t.Errorf("Restore left H = %d, want OriH = %d", peak.H, peak.OriH)
	}
}

func TestNodeAtMatchesOwningNode(t *testing.T) {
	img := singlePeak()
	tr := New(img)
	center := tr.NodeAt(1, 1, 0)
	if center.OriH != 5 {
		t.Errorf("NodeAt(1,1,0).OriH = %d, want 5", center.OriH)
	}
	corner := tr.NodeAt(0, 0, 0)
	if corner.OriH != 1 {
		t.Errorf("NodeAt(0,0,0).OriH = %d, want 1", corner.OriH)
	}
	if corner != tr.Root {
		t.Error("NodeAt(0,0,0) should be the root for a pixel at the plateau level")
	}
}

func TestFlatImageBuildsSingleRootNode(t *testing.T) {
	img := raster.New[uint8](4, 4, 1)
	img.Fill(7)
	tr := New(img)
	if len(tr.Root.Children) != 0 {
		t.Errorf("flat image produced %d children, want 0", len(tr.Root.Children))
	}
	if tr.Root.Area != int64(img.Len()) {
		t.Errorf("root.Area = %d, want %d", tr.Root.Area, img.Len())
	}
}

func TestContrastIsZeroOnFlatImage(t *testing.T) {
	img := raster.New[uint8](3, 3, 1)
	img.Fill(4)
	tr := NewWithAttributes(img, defaultNeighborhood(img), AttrContrast, DefaultAttributeParams())
	if tr.Root.Contrast != 0 {
		t.Errorf("flat image contrast = %d, want 0", tr.Root.Contrast)
	}
}

func TestVolumeAccumulatesAcrossSubtree(t *testing.T) {
	img := singlePeak()
	tr := NewWithAttributes(img, defaultNeighborhood(img), AttrVolume, DefaultAttributeParams())
	peak := tr.Root.Children[0]
	if peak.Volume != peak.Area*(peak.H-tr.Root.H) {
		t.Errorf("peak.Volume = %d, want %d", peak.Volume, peak.Area*(peak.H-tr.Root.H))
	}
	if tr.Root.Volume <= peak.Volume {
		t.Error("root volume should include its own contribution plus the peak's")
	}
}

// chainImage builds a 5x1 line with a strictly increasing value at every
// pixel, producing a 5-deep singly-nested chain of tree nodes: root at
// h=0 (area 5) down to a leaf at h=100 (area 1), with three intermediate
// steps of area 4, 3 and 2 in between.
func chainImage() *raster.Image[uint8] {
	return raster.NewFromData([]uint8{0, 1, 2, 3, 100}, 5, 1, 1)
}

func TestMSERWalksAncestorsByOwnGap(t *testing.T) {
	img := chainImage()
	params := AttributeParams{Delta: 1, Radius: 5}
	tr := NewWithAttributes(img, defaultNeighborhood(img), AttrAreaDerivatives, params)

	// root(h=0,area=5) -> n1(h=1,area=4) -> n2(h=2,area=3) -> n3(h=3,area=2) -> n4(h=100,area=1)
	n1 := tr.Root.Children[0]
	n2 := n1.Children[0]
	n3 := n2.Children[0]

	// n3's immediate parent (n2) already satisfies delta=1 on its own:
	// n3.H - n2.H == 1 >= delta. The walk must select n2, not stop at n3
	// itself (the bug this test guards against: checking anc.Parent.H
	// instead of anc.H leaves anc == n3, giving a zero gap).
	wantDeltaAreaF := float64(n2.Area-n3.Area) / float64(n2.Area)
	wantDeltaH := float64(n2.Area-n3.Area) / float64(n3.H-n2.H)
	wantMSER := float64(n2.Area-n3.Area) / float64(n3.Area)
	if n3.AreaDerivativeDeltaAreaF != wantDeltaAreaF {
		t.Errorf("n3.AreaDerivativeDeltaAreaF = %v, want %v", n3.AreaDerivativeDeltaAreaF, wantDeltaAreaF)
	}
	if n3.AreaDerivativeDeltaH != wantDeltaH {
		t.Errorf("n3.AreaDerivativeDeltaH = %v, want %v", n3.AreaDerivativeDeltaH, wantDeltaH)
	}
	// MSER normalizes by n3's own area, AreaDerivativeDeltaAreaF by the
	// selected ancestor's area — they diverge whenever the two areas
	// differ, as they do here (n2.Area=3, n3.Area=2).
	if n3.MSER != wantMSER {
		t.Errorf("n3.MSER = %v, want %v", n3.MSER, wantMSER)
	}
	if n3.MSER == n3.AreaDerivativeDeltaAreaF {
		t.Error("MSER and AreaDerivativeDeltaAreaF should use different area denominators and diverge here")
	}
}

func TestMSERFallsBackToInfinityBeforeRoot(t *testing.T) {
	img := chainImage()
	// A large delta that no gap in this 5-deep chain reaches before the
	// walk runs out of ancestors at the root.
	params := AttributeParams{Delta: 1000, Radius: 5}
	tr := NewWithAttributes(img, defaultNeighborhood(img), AttrAreaDerivatives, params)

	n4 := tr.Root.Children[0].Children[0].Children[0].Children[0]
	if n4.MSER != math.MaxFloat64 {
		t.Errorf("n4.MSER = %v, want the math.MaxFloat64 sentinel", n4.MSER)
	}
}

// ringImage builds a 5x5 image with three nested levels: an outer ring at
// 1, a middle ring at 3, and a single center pixel at 5.
func ringImage() *raster.Image[uint8] {
	return raster.NewFromData([]uint8{
		1, 1, 1, 1, 1,
		1, 3, 3, 3, 1,
		1, 3, 5, 3, 1,
		1, 3, 3, 3, 1,
		1, 1, 1, 1, 1,
	}, 5, 5, 1)
}

func TestMinReconstructionSwallowsWholeInactiveSubtree(t *testing.T) {
	img := ringImage()
	tr := New(img)

	a := tr.Root.Children[0] // h=3 ring
	b := a.Children[0]       // h=5 center

	// Deactivate only a. b stays active, reproducing the root(active) ->
	// a(inactive) -> b(active) scenario: MIN must swallow b along with
	// the rest of a's subtree into root's level, not repaint b at its
	// own h.
	a.Active = false
	if !b.Active {
		t.Fatal("test setup: b should still be active")
	}

	out := tr.Reconstruct(RuleMin)
	center := 2 + 2*5 // (x=2, y=2)
	if out.AtOffset(center) != uint8(tr.Root.H) {
		t.Errorf("center pixel = %d, want %d (root level, subtree fully swallowed)", out.AtOffset(center), tr.Root.H)
	}
	for _, off := range a.Pixels {
		if out.AtOffset(off) != uint8(tr.Root.H) {
			t.Errorf("ring pixel at offset %d = %d, want %d", off, out.AtOffset(off), tr.Root.H)
		}
	}
}
