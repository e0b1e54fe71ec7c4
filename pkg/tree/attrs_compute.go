package tree

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"maxtree/pkg/morphology"
	"maxtree/pkg/neighborhood"
	"maxtree/pkg/pixel"
	"maxtree/pkg/raster"
)

// computeAttributes walks the freshly built tree computing every
// attribute group selected by sel, grounded on the per-attribute
// recursions in SalembierRecursiveImplementation<T> in original_source/
// Algorithms/ComponentTree.hxx. Area, Sum and SumSquare are always
// aggregated (Mean/Variance and everything downstream of them depend on
// the aggregated, not the per-level, counts).
func computeAttributes[T pixel.Value](root *Node[T], orig *raster.Image[T], n *neighborhood.Neighborhood, sel AttributeSet, params AttributeParams) {
	sel = sel.resolve()

	aggregateAreaSum(root)
	computeMeanVariance(root)

	if sel.Has(AttrContrast) {
		computeContrast(root)
	}
	if sel.Has(AttrVolume) {
		computeVolume(root, root)
	}
	if sel.Has(AttrSubNodes) {
		computeSubNodes(root)
	}
	if sel.Has(AttrAreaDerivatives) {
		computeAreaDerivatives(root)
		computeMSER(root, params.Delta)
	}
	if sel.Has(AttrBoundingBox) {
		computeBoundingBox(root)
	}
	if sel.Has(AttrComplexityCompacity) {
		computeContour(root, orig, n)
		computeComplexityCompacity(root)
	}
	if sel.Has(AttrOtsu) {
		computeNeighborhoodAttributes(root, orig, neighborhood.MakeEuclideanBall2D(params.Radius))
		computeOtsu(root)
	}
	if sel.Has(AttrBorderGradient) {
		computeBorderGradient(root, orig, n)
	}
}

// aggregateAreaSum turns each node's own-pixel Area/Sum/SumSquare (set
// during flooding) into subtree totals, post-order.
func aggregateAreaSum[T pixel.Value](n *Node[T]) {
	for _, c := range n.Children {
		aggregateAreaSum(c)
		n.Area += c.Area
		n.Sum += c.Sum
		n.SumSquare += c.SumSquare
	}
}

func computeMeanVariance[T pixel.Value](n *Node[T]) {
	if n.Area > 0 {
		n.Mean = float64(n.Sum) / float64(n.Area)
		n.Variance = float64(n.SumSquare)/float64(n.Area) - n.Mean*n.Mean
	}
	for _, c := range n.Children {
		computeMeanVariance(c)
	}
}

// computeContrast returns the max, over the subtree, of (child.H - n.H) +
// child.Contrast — the depth of the deepest descendant measured in level
// units, post-order.
func computeContrast[T pixel.Value](n *Node[T]) int64 {
	var best int64
	for _, c := range n.Children {
		cc := computeContrast(c)
		local := (c.H - n.H) + cc
		if local > best {
			best = local
		}
	}
	n.Contrast = best
	return best
}

// computeVolume implements volume = area*local_contrast + sum(child
// volumes), where local_contrast is h - father.h except at the root,
// where it is h itself (there is no father to measure against).
func computeVolume[T pixel.Value](n, root *Node[T]) int64 {
	var localContrast int64
	if n == root {
		localContrast = n.H
	} else {
		localContrast = n.H - n.Parent.H
	}
	vol := n.Area * localContrast
	for _, c := range n.Children {
		vol += computeVolume(c, root)
	}
	n.Volume = vol
	return vol
}

// computeSubNodes counts total descendants, post-order.
func computeSubNodes[T pixel.Value](n *Node[T]) int64 {
	var total int64
	for _, c := range n.Children {
		total += 1 + computeSubNodes(c)
	}
	n.SubNodes = total
	return total
}

// computeAreaDerivatives computes the father-relative area-change family
// of attributes. Undefined at the root (no father to compare against) —
// those fields are left at their zero value there.
func computeAreaDerivatives[T pixel.Value](n *Node[T]) {
	if !n.IsRoot() {
		f := n.Parent
		dh := f.H - n.H
		if dh != 0 {
			n.AreaDerivativeH = float64(f.Area-n.Area) / float64(dh)
		}
		if n.Area != 0 {
			n.AreaDerivativeAreaN = float64(f.Area-n.Area) / float64(n.Area)
			n.AreaDerivativeAreaNH = n.AreaDerivativeAreaN / float64(n.Area)
		}
		n.AreaDerivativeAreaNHDeriv = f.AreaDerivativeAreaNH - n.AreaDerivativeAreaNH
	}
	for _, c := range n.Children {
		computeAreaDerivatives(c)
	}
}

// computeMSER climbs toward the root, at each step checking the current
// candidate ancestor's own gap to n before deciding whether to advance
// further, stopping as soon as that gap reaches delta or the root is
// reached — the region stability criterion MSER detection is built on.
// A gap that never reaches delta before the root sets MSER to
// math.MaxFloat64 (the largest finite float64, not +Inf), matching the
// original's numeric_limits::max() sentinel.
func computeMSER[T pixel.Value](n *Node[T], delta int64) {
	anc := n
	for !anc.IsRoot() && n.H-anc.H < delta {
		anc = anc.Parent
	}
	dh := n.H - anc.H
	if dh >= delta {
		// area_derivative_delta_areaF normalizes by the ancestor's
		// (father-side) area; MSER normalizes by n's own area — the two
		// diverge whenever anc.Area != n.Area, even though both measure
		// the same (anc.Area - n.Area) growth across the gap.
		if anc.Area != 0 {
			n.AreaDerivativeDeltaAreaF = float64(anc.Area-n.Area) / float64(anc.Area)
		}
		if dh != 0 {
			n.AreaDerivativeDeltaH = float64(anc.Area-n.Area) / float64(dh)
		}
		if n.Area != 0 {
			n.MSER = float64(anc.Area-n.Area) / float64(n.Area)
		}
	} else {
		n.MSER = math.MaxFloat64
	}
	for _, c := range n.Children {
		computeMSER(c, delta)
	}
}

// computeBoundingBox unions each node's own bounding box (already set by
// the builder from its own pixels) with every descendant's, post-order.
func computeBoundingBox[T pixel.Value](n *Node[T]) {
	for _, c := range n.Children {
		computeBoundingBox(c)
		n.BBox.union(c.BBox)
	}
}

// computeComplexityCompacity derives the two dimensionless shape scores
// from area and contour length, scaled by 1000 and truncated to match
// the original's integer arithmetic.
func computeComplexityCompacity[T pixel.Value](n *Node[T]) {
	if n.Area != 0 {
		n.Complexity = int64(1000 * float64(n.ContourLength) / float64(n.Area))
	}
	if n.ContourLength != 0 {
		n.Compacity = int64(4 * math.Pi * float64(n.Area) / float64(n.ContourLength*n.ContourLength) * 1000)
	}
	for _, c := range n.Children {
		computeComplexityCompacity(c)
	}
}

// nodeIndex maps every original-image offset to the node whose own pixel
// set contains it (built from the per-level Pixels lists the builder
// populated), used by the contour scan and by coordinate-based lookup.
func nodeIndex[T pixel.Value](root *Node[T], size int) []*Node[T] {
	idx := make([]*Node[T], size)
	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		for _, off := range n.Pixels {
			idx[off] = n
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
	return idx
}

// computeContour runs a single pass over the unbordered image: a pixel is
// on a contour if it has a strictly-lower-valued neighbor (the boundary
// toward its enclosing, lower-level ancestor region) or touches the image
// border. Each contour pixel increments ContourLength for every ancestor
// whose region the pixel still bounds: all the way to the root when the
// pixel touches the image border (the root's region always reaches the
// border), otherwise only while the ancestor's level exceeds the lowest
// neighboring value found (once an ancestor's level drops to that value,
// the pixel is interior to it). Grounded on computeContour in
// original_source/Algorithms/ComponentTree.hxx.
func computeContour[T pixel.Value](root *Node[T], orig *raster.Image[T], n *neighborhood.Neighborhood) {
	w, h, d := orig.Dims()
	idx := nodeIndex(root, w*h*d)

	neg, pos := n.PadWidths()
	bordered := raster.AddBorders(orig, neg, pos, pixel.Min[T]())
	bw, bh, _ := bordered.Dims()
	n.BindTo(bw, bh)
	offsets := n.Offsets()

	orig.Iterate(func(x, y, z, offset int) {
		bx, by, bz := x+neg[0], y+neg[1], z+neg[2]
		center := bordered.Offset(bx, by, bz)
		pv := bordered.AtOffset(center)

		hitsBorder := false
		touched := false
		minValue := pixel.Max[T]()
		bw3, bh3, bd3 := bordered.Dims()
		for _, off := range offsets {
			qb := center + off
			qx, qy, qz := bordered.Coord(qb)
			if qx < 0 || qx >= bw3 || qy < 0 || qy >= bh3 || qz < 0 || qz >= bd3 {
				continue
			}
			ox, oy, oz := qx-neg[0], qy-neg[1], qz-neg[2]
			if ox < 0 || ox >= w || oy < 0 || oy >= h || oz < 0 || oz >= d {
				hitsBorder = true
				continue
			}
			qv := bordered.AtOffset(qb)
			if qv < pv {
				touched = true
				if qv < minValue {
					minValue = qv
				}
			}
		}
		if !touched && !hitsBorder {
			return
		}

		node := idx[offset]
		if node == nil {
			return
		}
		if hitsBorder {
			anc := node
			for {
				anc.ContourLength++
				anc.Border = append(anc.Border, offset)
				if anc.IsRoot() {
					break
				}
				anc = anc.Parent
			}
			return
		}
		anc := node
		for int64(anc.H) > int64(minValue) {
			anc.ContourLength++
			anc.Border = append(anc.Border, offset)
			if anc.IsRoot() {
				break
			}
			anc = anc.Parent
		}
	})
}

// computeNeighborhoodAttributes computes, for every node, the mean and
// variance of pixel values in an r-radius ring around (but outside) the
// node's subtree — the statistic the Otsu-like discriminant attribute is
// built from. Grounded on computeNeighborhoodAttributes in
// original_source/Algorithms/ComponentTree.hxx: a scratch "still
// available" mask starts true everywhere, goes false for the subtree, and
// each subtree pixel consumes its still-available ring neighbors once.
func computeNeighborhoodAttributes[T pixel.Value](root *Node[T], orig *raster.Image[T], ball *neighborhood.Neighborhood) {
	w, h, d := orig.Dims()
	deltas := ball.Deltas()

	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		subtree := subtreePixels(n)
		available := make([]bool, w*h*d)
		for i := range available {
			available[i] = true
		}
		for _, off := range subtree {
			available[off] = false
		}
		// Ring neighbors are discovered once each and never revisited, so
		// — unlike the running sums area/sum use during flooding — the
		// full sample set is cheap to materialize and hand to
		// gonum/stat rather than hand-rolled into a closed-form formula.
		var samples []float64
		for _, off := range subtree {
			x, y, z := orig.Coord(off)
			for _, delta := range deltas {
				nx, ny, nz := x+delta.DX, y+delta.DY, z+delta.DZ
				if nx < 0 || nx >= w || ny < 0 || ny >= h || nz < 0 || nz >= d {
					continue
				}
				nb := orig.Offset(nx, ny, nz)
				if !available[nb] {
					continue
				}
				available[nb] = false
				v := float64(orig.AtOffset(nb))
				samples = append(samples, v)
				n.AreaNghb++
				n.SumNghb += int64(v)
				n.SumSquareNghb += int64(v * v)
			}
		}
		if len(samples) > 0 {
			// stat.Variance is the unbiased (n-1) sample variance, unlike the
			// population variance computeMeanVariance derives from running
			// sums; the Otsu discriminant only needs a variance-scaled
			// distance, so the small bias difference doesn't matter here.
			n.MeanNghb = stat.Mean(samples, nil)
			n.VarianceNghb = stat.Variance(samples, nil)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}

// subtreePixels collects every pixel offset owned anywhere in n's subtree.
func subtreePixels[T pixel.Value](n *Node[T]) []int {
	pixels := append([]int(nil), n.Pixels...)
	for _, c := range n.Children {
		pixels = append(pixels, subtreePixels(c)...)
	}
	return pixels
}

func computeOtsu[T pixel.Value](n *Node[T]) {
	denom := n.Variance + n.VarianceNghb
	if denom != 0 {
		n.Otsu = (n.Mean - n.MeanNghb) * (n.Mean - n.MeanNghb) / denom
	}
	for _, c := range n.Children {
		computeOtsu(c)
	}
}

// computeBorderGradient averages the morphological gradient of the
// original image over each node's own border pixels (populated by
// computeContour into Border when the complexity/compacity group ran;
// otherwise this falls back to the node's own Pixels as a coarser proxy).
func computeBorderGradient[T pixel.Value](root *Node[T], orig *raster.Image[T], n *neighborhood.Neighborhood) {
	grad := morphology.Gradient(orig, n)
	var visit func(n *Node[T])
	visit = func(node *Node[T]) {
		pixels := node.Border
		if len(pixels) == 0 {
			pixels = node.Pixels
		}
		if len(pixels) > 0 {
			var sum int64
			for _, off := range pixels {
				sum += int64(grad.AtOffset(off))
			}
			node.MeanGradientBorder = float64(sum) / float64(len(pixels))
		}
		for _, c := range node.Children {
			visit(c)
		}
	}
	visit(root)
}
