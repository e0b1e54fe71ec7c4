// Package morphology implements the minimal erosion/dilation/gradient
// operators the attribute engine needs to preprocess the gradient image
// consumed by mean_gradient_border (spec.md §3.3, §4.5). This is
// deliberately not a general structuring-element library — spec.md §1
// lists "generic morphological operators" as an external collaborator
// used only for this one preprocessing step, and DESIGN.md records why
// no third-party library in the retrieved pack covers integer/3D
// morphology without pulling in cgo (gocv) or dropping to float-only
// 2D-only packages.
//
// Grounded on original_source/Algorithms/Morphology.hxx.
package morphology

import (
	"maxtree/pkg/neighborhood"
	"maxtree/pkg/pixel"
	"maxtree/pkg/raster"
)

// Dilation returns the dilation of img by n: each output pixel is the
// maximum of img over the neighbor offsets in n, with the image padded
// by the type's minimum value so border probes never go out of range.
func Dilation[T pixel.Value](img *raster.Image[T], n *neighborhood.Neighborhood) *raster.Image[T] {
	return extremum(img, n, false)
}

// Erosion returns the erosion of img by n: each output pixel is the
// minimum of img over the neighbor offsets in n, padded by the type's
// maximum value.
func Erosion[T pixel.Value](img *raster.Image[T], n *neighborhood.Neighborhood) *raster.Image[T] {
	return extremum(img, n, true)
}

func extremum[T pixel.Value](img *raster.Image[T], n *neighborhood.Neighborhood, erode bool) *raster.Image[T] {
	neg, pos := n.PadWidths()
	pad := pixel.Min[T]()
	if erode {
		pad = pixel.Max[T]()
	}
	bordered := raster.AddBorders(img, neg, pos, pad)
	bw, bh, _ := bordered.Dims()
	n.BindTo(bw, bh)
	offsets := n.Offsets()

	w, h, d := img.Dims()
	res := raster.New[T](w, h, d)
	res.Iterate(func(x, y, z, _ int) {
		bx, by, bz := x+neg[0], y+neg[1], z+neg[2]
		center := bordered.Offset(bx, by, bz)
		extreme := pad
		for _, off := range offsets {
			v := bordered.AtOffset(center + off)
			if erode {
				if v < extreme {
					extreme = v
				}
			} else if v > extreme {
				extreme = v
			}
		}
		res.Set(x, y, z, extreme)
	})
	return res
}

// Gradient returns the morphological gradient dilation(img) - erosion(img),
// saturating at zero (img's pixel type is unsigned).
func Gradient[T pixel.Value](img *raster.Image[T], n *neighborhood.Neighborhood) *raster.Image[T] {
	dil := Dilation(img, n)
	ero := Erosion(img, n)
	w, h, d := img.Dims()
	res := raster.New[T](w, h, d)
	res.Iterate(func(x, y, z, offset int) {
		dv, ev := dil.AtOffset(offset), ero.AtOffset(offset)
		if dv < ev {
			res.SetOffset(offset, 0)
			return
		}
		res.SetOffset(offset, dv-ev)
	})
	return res
}
