// Package tree implements the component-tree (max-tree) engine: the
// Salembier recursive-flooding builder, the attribute engine, filtering,
// and the MIN/MAX/DIRECT reconstruction rules (spec.md §3, §4.3-§4.7).
// Grounded in full on original_source/Algorithms/ComponentTree.hxx.
package tree

import (
	"math"

	"maxtree/pkg/pixel"
)

// BoundingBox is the axis-aligned box enclosing a node's pixels and the
// bounding boxes of all its descendants (spec.md §3.3 invariant).
type BoundingBox struct {
	XMin, XMax int
	YMin, YMax int
	ZMin, ZMax int
}

func emptyBoundingBox() BoundingBox {
	return BoundingBox{
		XMin: math.MaxInt, XMax: math.MinInt,
		YMin: math.MaxInt, YMax: math.MinInt,
		ZMin: math.MaxInt, ZMax: math.MinInt,
	}
}

// union grows b to also enclose o.
func (b *BoundingBox) union(o BoundingBox) {
	b.XMin = min(b.XMin, o.XMin)
	b.XMax = max(b.XMax, o.XMax)
	b.YMin = min(b.YMin, o.YMin)
	b.YMax = max(b.YMax, o.YMax)
	b.ZMin = min(b.ZMin, o.ZMin)
	b.ZMax = max(b.ZMax, o.ZMax)
}

// Node is one component-tree node: a connected component of an upper
// level set, holding a parent/children link, the pixels whose canonical
// level is exactly this node's level, and every attribute slot spec.md
// §3.3 names. The zero value is not usable; nodes are created by the
// builder via newNode.
type Node[T pixel.Value] struct {
	H    int64 // current (possibly filter-restored) level
	OriH int64 // immutable original level, restored by Tree.Restore

	Parent   *Node[T]
	Children []*Node[T]

	// Pixels holds offsets (into the original, unbordered image) whose
	// canonical level is exactly H. Border holds the offsets identified
	// as this node's contour pixels, populated only when the
	// complexity/compacity attribute group is computed.
	Pixels []int
	Border []int

	Active bool

	Area      int64
	Sum       int64
	SumSquare int64
	Mean      float64
	Variance  float64

	Contrast int64
	Volume   int64
	SubNodes int64

	AreaDerivativeH               float64
	AreaDerivativeAreaN           float64
	AreaDerivativeAreaNH          float64
	AreaDerivativeAreaNHDeriv     float64
	AreaDerivativeDeltaH          float64
	AreaDerivativeDeltaAreaF      float64
	MSER                          float64

	AreaNghb      int64
	SumNghb       int64
	SumSquareNghb int64
	MeanNghb      float64
	VarianceNghb  float64
	Otsu          float64

	ContourLength int64
	Complexity    int64
	Compacity     int64

	MeanGradientBorder float64

	BBox BoundingBox
}

// IsRoot reports whether n is its own parent — the root predicate
// established by the builder (spec.md §9: "no null parent link").
func (n *Node[T]) IsRoot() bool { return n.Parent == n }

// newNode allocates a node at level h with the invariant defaults: active,
// empty bounding box, ori_h == h.
func newNode[T pixel.Value](h int64) *Node[T] {
	return &Node[T]{
		H:      h,
		OriH:   h,
		Active: true,
		BBox:   emptyBoundingBox(),
	}
}
