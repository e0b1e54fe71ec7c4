package tree

import (
	"maxtree/pkg/neighborhood"
	"maxtree/pkg/pixel"
	"maxtree/pkg/raster"
)

// Pixel status sentinels, matching original_source/Algorithms/
// ComponentTree.hxx's STATUS image: a pixel is either outside the
// original extent (statusBorder), waiting to be flooded (statusActive),
// queued but not yet popped (statusNotActive), or — once popped — holds
// the per-level node index it was assigned to (a non-negative int).
const (
	statusBorder    = -2
	statusActive    = -1
	statusNotActive = -3
)

// levelQueue is a FIFO of bordered-image offsets, one per intensity level,
// backed by an append-only slice with a read cursor (spec.md §4.3's
// hierarchical queue).
type levelQueue struct {
	data []int
	head int
}

func (q *levelQueue) push(v int) { q.data = append(q.data, v) }
func (q *levelQueue) empty() bool { return q.head >= len(q.data) }
func (q *levelQueue) pop() int {
	v := q.data[q.head]
	q.head++
	return v
}

// builder runs the Salembier recursive-flooding construction (spec.md §4.3,
// §9) over a single bordered working image, producing one Node per
// connected component of each upper level set.
type builder[T pixel.Value] struct {
	orig     *raster.Image[T]
	bordered *raster.Image[T]
	status   []int
	offsets  []int

	negPad [3]int
	origW  int
	origH  int
	origD  int

	hMin, hMax int64
	numLevels  int

	hq          []levelQueue
	numberNodes []int
	nodeAtLevel []bool
	index       [][]*Node[T]

	attrs AttributeParams
}

func newBuilder[T pixel.Value](img *raster.Image[T], n *neighborhood.Neighborhood, params AttributeParams) *builder[T] {
	w, h, d := img.Dims()
	neg, pos := n.PadWidths()
	bordered := raster.AddBorders(img, neg, pos, pixel.Min[T]())
	bw, bh, bd := bordered.Dims()
	n.BindTo(bw, bh)

	status := make([]int, bordered.Len())
	for i := range status {
		status[i] = statusActive
	}
	for z := 0; z < bd; z++ {
		for y := 0; y < bh; y++ {
			for x := 0; x < bw; x++ {
				if x < neg[0] || x >= neg[0]+w ||
					y < neg[1] || y >= neg[1]+h ||
					z < neg[2] || z >= neg[2]+d {
					status[bordered.Offset(x, y, z)] = statusBorder
				}
			}
		}
	}

	lo, hi := img.MinMax()
	hMin, hMax := int64(lo), int64(hi)
	numLevels := int(hMax-hMin) + 1

	histo := make([]int, numLevels)
	for _, v := range img.Data() {
		histo[int64(v)-hMin]++
	}
	index := make([][]*Node[T], numLevels)
	for i := range index {
		index[i] = make([]*Node[T], 0, histoCap(histo[i]))
	}

	return &builder[T]{
		orig:        img,
		bordered:    bordered,
		status:      status,
		offsets:     n.Offsets(),
		negPad:      neg,
		origW:       w,
		origH:       h,
		origD:       d,
		hMin:        hMin,
		hMax:        hMax,
		numLevels:   numLevels,
		hq:          make([]levelQueue, numLevels),
		numberNodes: make([]int, numLevels),
		nodeAtLevel: make([]bool, numLevels),
		index:       index,
		attrs:       params,
	}
}

// histoCap bounds preallocation: a level can hold at most as many
// components as it has pixels, but never needs to reserve more slices
// than that.
func histoCap(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// build runs computeTree and returns the root node.
func (b *builder[T]) build() *Node[T] {
	startOffset := -1
	for offset := 0; offset < len(b.status); offset++ {
		if b.status[offset] == statusActive && int64(b.bordered.AtOffset(offset)) == b.hMin {
			startOffset = offset
			break
		}
	}
	if startOffset < 0 {
		// Degenerate: every pixel already consumed (empty image). Build a
		// single root node covering nothing.
		root := newNode[T](b.hMin)
		root.Parent = root
		return root
	}
	b.hq[0].push(startOffset)
	b.nodeAtLevel[0] = true
	b.flood(0)
	return b.index[0][0]
}

// flood implements SalembierRecursiveImplementation::flood: drain the
// level-h queue, assigning each popped pixel to its node and pushing any
// newly-reached ACTIVE neighbors onto their own level queues, recursing
// whenever a neighbor's level is strictly higher. When the queue empties,
// the node is linked under the nearest populated lower level and flood
// returns that level so the caller's do/while can continue unwinding.
func (b *builder[T]) flood(h int) int {
	for !b.hq[h].empty() {
		p := b.hq[h].pop()
		label := b.numberNodes[h]
		b.status[p] = label
		for len(b.index[h]) <= label {
			b.index[h] = append(b.index[h], nil)
		}
		if b.index[h][label] == nil {
			b.index[h][label] = newNode[T](int64(h) + b.hMin)
		}
		b.updateAttributes(b.index[h][label], p)

		pv := b.bordered.AtOffset(p)
		for _, off := range b.offsets {
			q := p + off
			if b.status[q] != statusActive {
				continue
			}
			qv := b.bordered.AtOffset(q)
			hq := int(int64(qv) - b.hMin)
			b.hq[hq].push(q)
			b.status[q] = statusNotActive
			b.nodeAtLevel[hq] = true
			if qv > pv {
				m := hq
				for {
					m = b.flood(m)
					if m == h {
						break
					}
				}
			}
		}
	}

	b.numberNodes[h]++
	m := h - 1
	for m >= 0 && !b.nodeAtLevel[m] {
		m--
	}
	i := b.numberNodes[h] - 1
	if m >= 0 {
		j := b.numberNodes[m]
		for len(b.index[m]) <= j {
			b.index[m] = append(b.index[m], nil)
		}
		if b.index[m][j] == nil {
			b.index[m][j] = newNode[T](int64(m) + b.hMin)
		}
		linkNode(b.index[m][j], b.index[h][i])
	} else {
		b.index[h][i].Parent = b.index[h][i]
	}
	b.nodeAtLevel[h] = false
	return m
}

func linkNode[T pixel.Value](parent, child *Node[T]) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

// updateAttributes folds one pixel into its node's running sums and
// bounding box, converting the bordered offset back to an unbordered
// image offset, matching ComponentTree.hxx's update_attributes.
func (b *builder[T]) updateAttributes(n *Node[T], borderedOffset int) {
	bx, by, bz := b.bordered.Coord(borderedOffset)
	x, y, z := bx-b.negPad[0], by-b.negPad[1], bz-b.negPad[2]
	offset := x + y*b.origW + z*b.origW*b.origH

	n.Pixels = append(n.Pixels, offset)
	n.Area++
	n.Sum += n.H
	n.SumSquare += n.H * n.H

	if x < n.BBox.XMin {
		n.BBox.XMin = x
	}
	if x > n.BBox.XMax {
		n.BBox.XMax = x
	}
	if y < n.BBox.YMin {
		n.BBox.YMin = y
	}
	if y > n.BBox.YMax {
		n.BBox.YMax = y
	}
	if z < n.BBox.ZMin {
		n.BBox.ZMin = z
	}
	if z > n.BBox.ZMax {
		n.BBox.ZMax = z
	}
}
