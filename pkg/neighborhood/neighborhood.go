// Package neighborhood implements the FlatSE-equivalent connectivity mask
// (spec.md §3.2/§4.2), grounded on original_source/Common/FlatSE.h: an
// ordered set of integer displacements with two derived caches — flat
// offsets bound to an image size, and per-axis (negative, positive)
// extents used to size border padding.
package neighborhood

// Delta is a single 3D integer displacement.
type Delta struct {
	DX, DY, DZ int
}

// Neighborhood is an ordered set of displacements. Add accepts any
// displacement; the presets below are symmetric, and all of them except
// Make2DN5 and Make2DN9 exclude the origin (spec.md §4.2).
type Neighborhood struct {
	deltas  []Delta
	offsets []int // flat offsets, valid only against width/height
	bound   bool
	width   int
	height  int
}

// New returns an empty neighborhood.
func New() *Neighborhood {
	return &Neighborhood{}
}

// Add appends a displacement.
func (n *Neighborhood) Add(dx, dy, dz int) {
	n.deltas = append(n.deltas, Delta{dx, dy, dz})
	n.bound = false
}

// Deltas returns the ordered displacement list.
func (n *Neighborhood) Deltas() []Delta { return n.deltas }

// Len returns the number of displacements.
func (n *Neighborhood) Len() int { return len(n.deltas) }

// BindTo recomputes the flat offset cache against an image of the given
// width/height. Offsets from a neighborhood bound to one size must never
// be used against a differently-sized image (spec.md §3.1 invariant).
func (n *Neighborhood) BindTo(width, height int) {
	n.offsets = make([]int, len(n.deltas))
	for i, d := range n.deltas {
		n.offsets[i] = d.DX + d.DY*width + d.DZ*width*height
	}
	n.bound = true
	n.width, n.height = width, height
}

// Offsets returns the flat-offset cache. Panics if BindTo has not been
// called (an unbound neighborhood is a programming error, not a runtime
// one the caller can recover from).
func (n *Neighborhood) Offsets() []int {
	if !n.bound {
		panic("neighborhood: Offsets called before BindTo")
	}
	return n.offsets
}

// NegativeExtents returns, per axis, the minimum (most negative)
// displacement — used as the low-side border pad width.
func (n *Neighborhood) NegativeExtents() [3]int {
	var ext [3]int
	for _, d := range n.deltas {
		if d.DX < ext[0] {
			ext[0] = d.DX
		}
		if d.DY < ext[1] {
			ext[1] = d.DY
		}
		if d.DZ < ext[2] {
			ext[2] = d.DZ
		}
	}
	return ext
}

// PositiveExtents returns, per axis, the maximum displacement — used as
// the high-side border pad width.
func (n *Neighborhood) PositiveExtents() [3]int {
	var ext [3]int
	for _, d := range n.deltas {
		if d.DX > ext[0] {
			ext[0] = d.DX
		}
		if d.DY > ext[1] {
			ext[1] = d.DY
		}
		if d.DZ > ext[2] {
			ext[2] = d.DZ
		}
	}
	return ext
}

// PadWidths returns (negAbs, posAbs), the absolute-valued negative and
// positive extents, in the form raster.AddBorders expects.
func (n *Neighborhood) PadWidths() (neg, pos [3]int) {
	ne := n.NegativeExtents()
	pe := n.PositiveExtents()
	for i := 0; i < 3; i++ {
		neg[i] = -ne[i]
		pos[i] = pe[i]
	}
	return
}

// Make2DN4 builds the 4-connected 2D neighborhood.
func Make2DN4() *Neighborhood {
	n := New()
	n.Add(-1, 0, 0)
	n.Add(1, 0, 0)
	n.Add(0, -1, 0)
	n.Add(0, 1, 0)
	return n
}

// Make2DN8 builds the 8-connected 2D neighborhood — the default
// connectivity (spec.md §3.2): the 8 displacements {(±1,0),(0,±1),(±1,±1)},
// origin excluded.
func Make2DN8() *Neighborhood {
	n := New()
	n.Add(-1, -1, 0)
	n.Add(0, -1, 0)
	n.Add(1, -1, 0)
	n.Add(-1, 0, 0)
	n.Add(1, 0, 0)
	n.Add(-1, 1, 0)
	n.Add(0, 1, 0)
	n.Add(1, 1, 0)
	return n
}

// Make2DN5 builds N4 plus the origin (rarely useful for tree building,
// kept for parity with libTIM's FlatSE::make2DN5).
func Make2DN5() *Neighborhood {
	n := Make2DN4()
	n.Add(0, 0, 0)
	return n
}

// Make2DN9 builds N8 plus the origin.
func Make2DN9() *Neighborhood {
	n := Make2DN8()
	n.Add(0, 0, 0)
	return n
}

// Make3DN6 builds the 6-connected 3D neighborhood (face neighbors).
func Make3DN6() *Neighborhood {
	n := New()
	n.Add(-1, 0, 0)
	n.Add(1, 0, 0)
	n.Add(0, -1, 0)
	n.Add(0, 1, 0)
	n.Add(0, 0, -1)
	n.Add(0, 0, 1)
	return n
}

// Make3DN18 builds the 18-connected 3D neighborhood (face + edge).
func Make3DN18() *Neighborhood {
	n := New()
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if abs(dx)+abs(dy)+abs(dz) <= 2 {
					n.Add(dx, dy, dz)
				}
			}
		}
	}
	return n
}

// Make3DN26 builds the fully-connected 3D neighborhood (face+edge+corner).
func Make3DN26() *Neighborhood {
	n := New()
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n.Add(dx, dy, dz)
			}
		}
	}
	return n
}

// MakeEuclideanBall2D builds the set of integer displacements within
// Euclidean radius r of the origin (origin excluded) — used to compute
// the neighborhood-ring statistics attribute (spec.md §4.5.1). Grounded
// on original_source/Common/FlatSE.h's make2DEuclidianBall.
func MakeEuclideanBall2D(r int) *Neighborhood {
	n := New()
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if dx*dx+dy*dy <= r2 {
				n.Add(dx, dy, 0)
			}
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
