// Package raster implements the dense n-D image buffer the component-tree
// engine operates on (spec.md §3.1/§4.1). It intentionally does not build
// on stdlib's image.Image: that type is fixed to 2D and to a closed set of
// pixel layouts, whereas the tree builder needs an arbitrary-depth integer
// buffer with linear offset arithmetic and a border-padding operation
// (see DESIGN.md for why no third-party array library fits either).
package raster

import "maxtree/pkg/pixel"

// Image is a dense rectangular (or cuboid, for D>1) buffer of pixels.
// A pixel at (x, y, z) maps to the linear offset x + y*W + z*W*H.
type Image[T pixel.Value] struct {
	width, height, depth int
	data                 []T
}

// New allocates a zero-filled image of the given dimensions. Depth of 1
// yields a 2D image.
func New[T pixel.Value](width, height, depth int) *Image[T] {
	if depth < 1 {
		depth = 1
	}
	return &Image[T]{
		width:  width,
		height: height,
		depth:  depth,
		data:   make([]T, width*height*depth),
	}
}

// NewFromData wraps an existing row-major buffer; len(data) must equal
// width*height*depth.
func NewFromData[T pixel.Value](data []T, width, height, depth int) *Image[T] {
	if depth < 1 {
		depth = 1
	}
	return &Image[T]{width: width, height: height, depth: depth, data: data}
}

// Dims returns (width, height, depth).
func (img *Image[T]) Dims() (int, int, int) { return img.width, img.height, img.depth }

// Width, Height and Depth are convenience accessors.
func (img *Image[T]) Width() int  { return img.width }
func (img *Image[T]) Height() int { return img.height }
func (img *Image[T]) Depth() int  { return img.depth }

// Len returns the number of pixels in the buffer.
func (img *Image[T]) Len() int { return len(img.data) }

// Data exposes the underlying row-major buffer.
func (img *Image[T]) Data() []T { return img.data }

// Offset converts a coordinate to a linear offset. Offsets computed
// against one image's dimensions must never be used against another's
// (spec.md §3.1 invariant) — there is no bounds check here for speed;
// use InBounds first when the coordinate is not already known-valid.
func (img *Image[T]) Offset(x, y, z int) int {
	return x + y*img.width + z*img.width*img.height
}

// Coord converts a linear offset back to a coordinate.
func (img *Image[T]) Coord(offset int) (x, y, z int) {
	plane := img.width * img.height
	z = offset / plane
	r := offset % plane
	y = r / img.width
	x = r % img.width
	return
}

// InBounds reports whether (x, y, z) lies inside the image.
func (img *Image[T]) InBounds(x, y, z int) bool {
	return x >= 0 && x < img.width &&
		y >= 0 && y < img.height &&
		z >= 0 && z < img.depth
}

// At returns the pixel at (x, y, z).
func (img *Image[T]) At(x, y, z int) T { return img.data[img.Offset(x, y, z)] }

// AtOffset returns the pixel at a precomputed linear offset.
func (img *Image[T]) AtOffset(offset int) T { return img.data[offset] }

// Set writes the pixel at (x, y, z).
func (img *Image[T]) Set(x, y, z int, v T) { img.data[img.Offset(x, y, z)] = v }

// SetOffset writes the pixel at a precomputed linear offset.
func (img *Image[T]) SetOffset(offset int, v T) { img.data[offset] = v }

// Fill sets every pixel to v.
func (img *Image[T]) Fill(v T) {
	for i := range img.data {
		img.data[i] = v
	}
}

// Clone returns a deep copy.
func (img *Image[T]) Clone() *Image[T] {
	data := make([]T, len(img.data))
	copy(data, img.data)
	return &Image[T]{width: img.width, height: img.height, depth: img.depth, data: data}
}

// CopyFrom copies src into img at the given origin offset, clipping at
// img's bounds. Used by border padding to place the original image
// inside the larger bordered buffer.
func (img *Image[T]) CopyFrom(src *Image[T], ox, oy, oz int) {
	sw, sh, sd := src.Dims()
	for z := 0; z < sd; z++ {
		dz := oz + z
		if dz < 0 || dz >= img.depth {
			continue
		}
		for y := 0; y < sh; y++ {
			dy := oy + y
			if dy < 0 || dy >= img.height {
				continue
			}
			for x := 0; x < sw; x++ {
				dx := ox + x
				if dx < 0 || dx >= img.width {
					continue
				}
				img.Set(dx, dy, dz, src.At(x, y, z))
			}
		}
	}
}

// Crop returns a new image containing the half-open range [loX,hiX) x
// [loY,hiY) x [loZ,hiZ) of img, per spec.md §4.1.
func (img *Image[T]) Crop(loX, hiX, loY, hiY, loZ, hiZ int) *Image[T] {
	w, h, d := hiX-loX, hiY-loY, hiZ-loZ
	res := New[T](w, h, d)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				res.Set(x, y, z, img.At(loX+x, loY+y, loZ+z))
			}
		}
	}
	return res
}

// MinMax returns the minimum and maximum pixel values in the image.
func (img *Image[T]) MinMax() (min, max T) {
	if len(img.data) == 0 {
		return 0, 0
	}
	min, max = img.data[0], img.data[0]
	for _, v := range img.data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

// Iterate calls fn for every pixel in row-major order with its
// coordinate and linear offset.
func (img *Image[T]) Iterate(fn func(x, y, z, offset int)) {
	offset := 0
	for z := 0; z < img.depth; z++ {
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				fn(x, y, z, offset)
				offset++
			}
		}
	}
}

// Equal reports whether two images have identical dimensions and data,
// used by the DIRECT round-trip tests (spec.md §8 properties 9-10).
func Equal[T pixel.Value](a, b *Image[T]) bool {
	if a.width != b.width || a.height != b.height || a.depth != b.depth {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// AddBorders returns a new image padded by neg on the low side and pos on
// the high side of each axis, filled with value outside the original
// extent (spec.md §4.3). Grounded on original_source/Algorithms/
// Morphology.hxx's addBorders.
func AddBorders[T pixel.Value](img *Image[T], neg, pos [3]int, value T) *Image[T] {
	w, h, d := img.Dims()
	res := New[T](w+neg[0]+pos[0], h+neg[1]+pos[1], d+neg[2]+pos[2])
	res.Fill(value)
	res.CopyFrom(img, neg[0], neg[1], neg[2])
	return res
}
