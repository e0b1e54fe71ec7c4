package tree

import (
	"maxtree/pkg/neighborhood"
	"maxtree/pkg/pixel"
	"maxtree/pkg/raster"
)

// Tree is the public component-tree handle: a built, attribute-computed
// max-tree over one image, plus the dimensions needed to reconstruct
// images from it (spec.md §3.1-§3.3, §6.2).
type Tree[T pixel.Value] struct {
	Root   *Node[T]
	Width  int
	Height int
	Depth  int
	HMin   int64
	HMax   int64

	orig  *raster.Image[T]
	nb    *neighborhood.Neighborhood
	index []*Node[T] // lazily built offset -> owning node cache
}

// New builds a tree over img using the default 8-connectivity (2D) or
// 6-connectivity (3D) neighborhood and no optional attributes beyond
// area/sum/mean/variance, which are always computed.
func New[T pixel.Value](img *raster.Image[T]) *Tree[T] {
	return NewWithAttributes(img, defaultNeighborhood(img), AttrNone, DefaultAttributeParams())
}

// NewWithNeighborhood builds a tree using an explicit connectivity mask
// in place of the default.
func NewWithNeighborhood[T pixel.Value](img *raster.Image[T], nb *neighborhood.Neighborhood) *Tree[T] {
	return NewWithAttributes(img, nb, AttrNone, DefaultAttributeParams())
}

// NewWithMSER builds a tree using an explicit connectivity mask, with the
// area-derivative/MSER attribute group computed at the given delta.
func NewWithMSER[T pixel.Value](img *raster.Image[T], nb *neighborhood.Neighborhood, delta int64) *Tree[T] {
	params := DefaultAttributeParams()
	params.Delta = delta
	return NewWithAttributes(img, nb, AttrAreaDerivatives, params)
}

// NewWithAttributes builds a tree with full control over connectivity,
// the attribute bundle to compute, and the MSER/neighborhood-ring
// parameters — the constructor every other New* delegates to, matching
// the most general ComponentTree constructor in original_source/
// Algorithms/ComponentTree.hxx.
func NewWithAttributes[T pixel.Value](img *raster.Image[T], nb *neighborhood.Neighborhood, sel AttributeSet, params AttributeParams) *Tree[T] {
	w, h, d := img.Dims()
	b := newBuilder(img, nb, params)
	root := b.build()
	computeAttributes(root, img, nb, sel, params)

	return &Tree[T]{
		Root:   root,
		Width:  w,
		Height: h,
		Depth:  d,
		HMin:   b.hMin,
		HMax:   b.hMax,
		orig:   img,
		nb:     nb,
	}
}

func defaultNeighborhood[T pixel.Value](img *raster.Image[T]) *neighborhood.Neighborhood {
	_, _, d := img.Dims()
	if d > 1 {
		return neighborhood.Make3DN6()
	}
	return neighborhood.Make2DN8()
}

// buildIndex lazily maps every pixel offset to its owning node.
func (t *Tree[T]) buildIndex() {
	if t.index != nil {
		return
	}
	t.index = nodeIndex(t.Root, t.Width*t.Height*t.Depth)
}

// NodeAtOffset returns the node owning the pixel at offset.
func (t *Tree[T]) NodeAtOffset(offset int) *Node[T] {
	t.buildIndex()
	return t.index[offset]
}

// NodeAt returns the node owning the pixel at (x, y, z).
func (t *Tree[T]) NodeAt(x, y, z int) *Node[T] {
	return t.NodeAtOffset(x + y*t.Width + z*t.Width*t.Height)
}

// SetFalse, Restore and the threshold filters operate over the whole
// tree, rooted at t.Root.
func (t *Tree[T]) SetFalse()                         { SetFalse(t.Root) }
func (t *Tree[T]) Restore()                          { Restore(t.Root) }
func (t *Tree[T]) AreaFiltering(tMin, tMax int64)    { AreaFiltering(t.Root, tMin, tMax) }
func (t *Tree[T]) VolumicFiltering(tMin, tMax int64) { VolumicFiltering(t.Root, tMin, tMax) }
func (t *Tree[T]) ContrastFiltering(tMin, tMax int64) {
	ContrastFiltering(t.Root, tMin, tMax)
}

// Reconstruct renders the tree back to an image using the given rule.
func (t *Tree[T]) Reconstruct(rule ReconstructionRule) *raster.Image[T] {
	switch rule {
	case RuleMin:
		return ReconstructMin[T](t.Root, t.Width, t.Height, t.Depth)
	case RuleMax:
		return ReconstructMax[T](t.Root, t.Width, t.Height, t.Depth)
	default:
		return ReconstructDirect[T](t.Root, t.Width, t.Height, t.Depth)
	}
}

// ReconstructionRule selects one of the three reconstruction semantics
// spec.md §4.7 names.
type ReconstructionRule int

const (
	RuleMin ReconstructionRule = iota
	RuleMax
	RuleDirect
)

func (r ReconstructionRule) String() string {
	switch r {
	case RuleMin:
		return "min"
	case RuleMax:
		return "max"
	default:
		return "direct"
	}
}

// ParseReconstructionRule parses the CLI/config spelling of a
// reconstruction rule.
func ParseReconstructionRule(s string) (ReconstructionRule, bool) {
	switch s {
	case "min":
		return RuleMin, true
	case "max":
		return RuleMax, true
	case "direct":
		return RuleDirect, true
	default:
		return 0, false
	}
}
