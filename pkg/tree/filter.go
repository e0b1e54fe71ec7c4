package tree

import "maxtree/pkg/pixel"

// SetFalse deactivates every node in n's subtree, without deleting
// anything — filtering only ever toggles Active (spec.md §4.6).
func SetFalse[T pixel.Value](n *Node[T]) {
	n.Active = false
	for _, c := range n.Children {
		SetFalse(c)
	}
}

// Restore reactivates every node in n's subtree and resets H back to
// OriH, undoing both filtering and any level changes made for
// reconstruction experiments.
func Restore[T pixel.Value](n *Node[T]) {
	n.Active = true
	n.H = n.OriH
	for _, c := range n.Children {
		Restore(c)
	}
}

// AreaFiltering deactivates every node whose Area falls outside
// [tMin, tMax].
func AreaFiltering[T pixel.Value](root *Node[T], tMin, tMax int64) {
	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		if n.Area < tMin || n.Area > tMax {
			n.Active = false
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}

// VolumicFiltering deactivates every node whose Volume falls outside
// [tMin, tMax].
func VolumicFiltering[T pixel.Value](root *Node[T], tMin, tMax int64) {
	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		if n.Volume < tMin || n.Volume > tMax {
			n.Active = false
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}

// ContrastFiltering deactivates every node whose Contrast falls outside
// [tMin, tMax].
func ContrastFiltering[T pixel.Value](root *Node[T], tMin, tMax int64) {
	var visit func(n *Node[T])
	visit = func(n *Node[T]) {
		if n.Contrast < tMin || n.Contrast > tMax {
			n.Active = false
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}
