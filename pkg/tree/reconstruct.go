package tree

import (
	"maxtree/pkg/pixel"
	"maxtree/pkg/raster"
)

// AttributeID names one scalar attribute for the attribute-indexed
// reconstruction rules (spec.md §4.7), mirroring the Attribute enum
// getAttribute<TVal> switches on in original_source/Algorithms/
// ComponentTree.hxx.
type AttributeID int

const (
	AttrIDArea AttributeID = iota
	AttrIDContrast
	AttrIDVolume
	AttrIDMean
	AttrIDVariance
	AttrIDOtsu
	AttrIDMSER
	AttrIDComplexity
	AttrIDCompacity
	AttrIDSubNodes
)

func getAttribute[T pixel.Value](n *Node[T], id AttributeID) float64 {
	switch id {
	case AttrIDArea:
		return float64(n.Area)
	case AttrIDContrast:
		return float64(n.Contrast)
	case AttrIDVolume:
		return float64(n.Volume)
	case AttrIDMean:
		return n.Mean
	case AttrIDVariance:
		return n.Variance
	case AttrIDOtsu:
		return n.Otsu
	case AttrIDMSER:
		return n.MSER
	case AttrIDComplexity:
		return float64(n.Complexity)
	case AttrIDCompacity:
		return float64(n.Compacity)
	case AttrIDSubNodes:
		return float64(n.SubNodes)
	}
	return 0
}

// ReconstructMin paints every pixel at the level of its node if that node
// is active, or at the level of its nearest active ancestor otherwise. An
// inactive node's entire subtree is swallowed wholesale — including any
// active descendant buried inside it — matching merge_pixels in
// original_source/Algorithms/ComponentTree.hxx, which aggregates a
// subtree unconditionally once its root node is inactive, without ever
// checking descendant activity. The walk therefore only descends past a
// node when that node itself is active; hitting an inactive node paints
// its whole subtree at the inherited level and stops (spec.md §4.7 MIN
// rule).
func ReconstructMin[T pixel.Value](root *Node[T], width, height, depth int) *raster.Image[T] {
	res := raster.New[T](width, height, depth)
	var visit func(n *Node[T], inherited int64)
	visit = func(n *Node[T], inherited int64) {
		if n.Active {
			for _, off := range n.Pixels {
				res.SetOffset(off, T(n.H))
			}
			for _, c := range n.Children {
				visit(c, n.H)
			}
			return
		}
		for _, off := range subtreePixels(n) {
			res.SetOffset(off, T(inherited))
		}
	}
	visit(root, root.H)
	return res
}

// ReconstructMax reproduces the leaf-driven bubble-up rule from
// constructImageMax in original_source/Algorithms/ComponentTree.hxx.
// Starting from the leaves, an active node paints its whole subtree at
// its own H; an inactive non-root node queues its father (each father is
// queued at most once). Fathers are processed after the leaves, so an
// active father reached this way repaints its active children at its own
// H. A node is reached only as a leaf or from an inactive child, and its
// own pixels are painted only when it or a reached ancestor is active;
// all other pixels stay 0. In an unfiltered tree with more than one node
// only the leaves are painted, and a leaf chain that is inactive all the
// way to the root stays unpainted.
func ReconstructMax[T pixel.Value](root *Node[T], width, height, depth int) *raster.Image[T] {
	res := raster.New[T](width, height, depth)

	pending := map[*Node[T]]bool{}
	var leaves []*Node[T]
	var mark func(n *Node[T])
	mark = func(n *Node[T]) {
		pending[n] = true
		if len(n.Children) == 0 {
			leaves = append(leaves, n)
		}
		for _, c := range n.Children {
			mark(c)
		}
	}
	mark(root)

	queue := append([]*Node[T](nil), leaves...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if n.Active {
			for _, off := range subtreePixels(n) {
				res.SetOffset(off, T(n.H))
			}
			continue
		}
		if n.IsRoot() {
			continue
		}
		f := n.Parent
		if pending[f] {
			pending[f] = false
			queue = append(queue, f)
		}
	}
	return res
}

// ReconstructDirect implements the DIRECT rule: active nodes paint their
// own pixels at their own level; each maximal chain of consecutive
// inactive descendants has its pixels aggregated and painted at the
// level of the nearest active ancestor above the chain. Grounded on
// constructImageDirectExpe in original_source/Algorithms/
// ComponentTree.hxx, which is what the original's top-level
// constructImage(DIRECT) actually dispatches to.
func ReconstructDirect[T pixel.Value](root *Node[T], width, height, depth int) *raster.Image[T] {
	res := raster.New[T](width, height, depth)
	var paint func(n *Node[T], nearestActiveLevel int64)
	paint = func(n *Node[T], nearestActiveLevel int64) {
		level := nearestActiveLevel
		if n.Active {
			level = n.H
		}
		for _, off := range n.Pixels {
			res.SetOffset(off, T(level))
		}
		for _, c := range n.Children {
			paint(c, level)
		}
	}
	paint(root, root.H)
	return res
}

// attributeWalk climbs from n toward the root, stopping before the root
// itself is considered (original_source/Algorithms/ComponentTree.hxx:
// "n->father == m_root" ends the climb), returning whichever of n and
// the ancestors visited scores best on sel; n is the starting candidate
// and ties keep the lower node. When limit is non-nil, ancestors whose
// limit attribute falls outside [limMin, limMax] are skipped without
// being considered as a candidate; n itself is not checked against the
// limit. When n is the root, n is returned.
func attributeWalk[T pixel.Value](n, root *Node[T], sel AttributeID, useMax bool, limit *AttributeID, limMin, limMax float64) *Node[T] {
	best := n
	cur := n
	for cur.Parent != root {
		cur = cur.Parent
		if limit != nil {
			v := getAttribute(cur, *limit)
			if v < limMin || v > limMax {
				continue
			}
		}
		v := getAttribute(cur, sel)
		bv := getAttribute(best, sel)
		if useMax && v > bv {
			best = cur
		} else if !useMax && v < bv {
			best = cur
		}
	}
	return best
}

func reconstructByAttribute[T pixel.Value](root *Node[T], width, height, depth int, sel AttributeID, useMax bool, limit *AttributeID, limMin, limMax float64) *raster.Image[T] {
	res := raster.New[T](width, height, depth)
	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		chosen := attributeWalk(n, root, sel, useMax, limit, limMin, limMax)
		for _, off := range n.Pixels {
			res.SetOffset(off, T(chosen.H))
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
	return res
}

// ReconstructAttributeMin paints each pixel at the level of whichever
// node on the chain from the pixel's own node up to, but not including,
// the root has the smallest value of sel (see attributeWalk).
func ReconstructAttributeMin[T pixel.Value](root *Node[T], width, height, depth int, sel AttributeID) *raster.Image[T] {
	return reconstructByAttribute(root, width, height, depth, sel, false, nil, 0, 0)
}

// ReconstructAttributeMax paints each pixel at the level of whichever
// node on the chain from the pixel's own node up to, but not including,
// the root has the largest value of sel (see attributeWalk).
func ReconstructAttributeMax[T pixel.Value](root *Node[T], width, height, depth int, sel AttributeID) *raster.Image[T] {
	return reconstructByAttribute(root, width, height, depth, sel, true, nil, 0, 0)
}

// ReconstructAttributeMinLimited is ReconstructAttributeMin restricted to
// ancestors whose limit attribute lies within [limMin, limMax] (the
// pixel's own node stays a candidate).
func ReconstructAttributeMinLimited[T pixel.Value](root *Node[T], width, height, depth int, sel, limit AttributeID, limMin, limMax float64) *raster.Image[T] {
	return reconstructByAttribute(root, width, height, depth, sel, false, &limit, limMin, limMax)
}

// ReconstructAttributeMaxLimited is ReconstructAttributeMax restricted to
// ancestors whose limit attribute lies within [limMin, limMax] (the
// pixel's own node stays a candidate).
func ReconstructAttributeMaxLimited[T pixel.Value](root *Node[T], width, height, depth int, sel, limit AttributeID, limMin, limMax float64) *raster.Image[T] {
	return reconstructByAttribute(root, width, height, depth, sel, true, &limit, limMin, limMax)
}
