package sdf

import (
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// Dist2D is a signed 2D distance function.
type Dist2D func(p mgl32.Vec2) float32

// Outline is a closed polygon in the XY plane, as drawn in the editor.
type Outline struct {
	Points []mgl32.Vec2 `json:"points"`
}

func (o Outline) Valid() bool { return len(o.Points) >= 3 }

func (o Outline) Bounds() (mgl32.Vec2, mgl32.Vec2) {
	if len(o.Points) == 0 {
		return mgl32.Vec2{}, mgl32.Vec2{}
	}
	lo, hi := o.Points[0], o.Points[0]
	for _, p := range o.Points[1:] {
		lo = mgl32.Vec2{min(lo.X(), p.X()), min(lo.Y(), p.Y())}
		hi = mgl32.Vec2{max(hi.X(), p.X()), max(hi.Y(), p.Y())}
	}
	return lo, hi
}

func (o Outline) Centroid() mgl32.Vec2 {
	var c mgl32.Vec2
	for _, p := range o.Points {
		c = c.Add(p)
	}
	if len(o.Points) > 0 {
		c = c.Mul(1 / float32(len(o.Points)))
	}
	return c
}

// Contains uses the even-odd rule.
func (o Outline) Contains(p mgl32.Vec2) bool {
	in := false
	n := len(o.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o.Points[i], o.Points[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
			if p.X() < x {
				in = !in
			}
		}
	}
	return in
}

// edgeDistance is the unsigned distance from p to the polygon boundary.
func (o Outline) edgeDistance(p mgl32.Vec2) float32 {
	best := float32(math.MaxFloat32)
	n := len(o.Points)
	for i := 0; i < n; i++ {
		a, b := o.Points[i], o.Points[(i+1)%n]
		ab := b.Sub(a)
		var t float32
		if l := ab.Dot(ab); l > 0 {
			t = clamp(p.Sub(a).Dot(ab)/l, 0, 1)
		}
		best = min(best, p.Sub(a.Add(ab.Mul(t))).Len())
	}
	return best
}

// SignedDistance is negative inside the outline.
func (o Outline) SignedDistance(p mgl32.Vec2) float32 {
	d := o.edgeDistance(p)
	if o.Contains(p) {
		return -d
	}
	return d
}

// Raster maps between outline space and a coverage mask.
type Raster struct {
	Mask *image.Alpha
	Min  mgl32.Vec2
	Cell float32
}

// Rasterize fills the outline into a w×h coverage mask covering its bounds
// plus pad on every side.
func (o Outline) Rasterize(w, h int, pad float32) Raster {
	lo, hi := o.Bounds()
	lo = lo.Sub(mgl32.Vec2{pad, pad})
	hi = hi.Add(mgl32.Vec2{pad, pad})
	cell := max((hi.X()-lo.X())/float32(w), (hi.Y()-lo.Y())/float32(h))

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if !o.Valid() || cell <= 0 {
		return Raster{Mask: mask, Min: lo, Cell: cell}
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	first := o.Points[0]
	z.MoveTo((first.X()-lo.X())/cell, (first.Y()-lo.Y())/cell)
	for _, p := range o.Points[1:] {
		z.LineTo((p.X()-lo.X())/cell, (p.Y()-lo.Y())/cell)
	}
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return Raster{Mask: mask, Min: lo, Cell: cell}
}

// Covered reports whether the pixel centred nearest p is at least half
// covered.
func (r Raster) Covered(p mgl32.Vec2) bool {
	x := int(math.Floor(float64((p.X() - r.Min.X()) / r.Cell)))
	y := int(math.Floor(float64((p.Y() - r.Min.Y()) / r.Cell)))
	if !(image.Point{x, y}).In(r.Mask.Bounds()) {
		return false
	}
	return r.Mask.AlphaAt(x, y).A >= 128
}

// Field2D is a signed distance field sampled at pixel centres.
type Field2D struct {
	Min    mgl32.Vec2
	Cell   float32
	W, H   int
	Values []float32
}

// Sample precomputes the outline's distance field. Inside/outside comes from
// the coverage mask; magnitude from the exact edge distance.
func (o Outline) Sample(resolution int) *Field2D {
	lo, hi := o.Bounds()
	size := hi.Sub(lo)
	pad := max(size.X(), size.Y()) * 0.1
	w, h := resolution, resolution
	if size.X() > size.Y() && size.X() > 0 {
		h = max(1, int(float32(resolution)*size.Y()/size.X()+0.5))
	} else if size.Y() > 0 {
		w = max(1, int(float32(resolution)*size.X()/size.Y()+0.5))
	}
	ras := o.Rasterize(w, h, pad)

	f := &Field2D{Min: ras.Min, Cell: ras.Cell, W: w, H: h, Values: make([]float32, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := f.pixelCenter(x, y)
			d := o.edgeDistance(p)
			if ras.Mask.AlphaAt(x, y).A >= 128 {
				d = -d
			}
			f.Values[y*w+x] = d
		}
	}
	return f
}

func (f *Field2D) pixelCenter(x, y int) mgl32.Vec2 {
	return f.Min.Add(mgl32.Vec2{(float32(x) + 0.5) * f.Cell, (float32(y) + 0.5) * f.Cell})
}

func (f *Field2D) value(x, y int) float32 {
	x = min(max(x, 0), f.W-1)
	y = min(max(y, 0), f.H-1)
	return f.Values[y*f.W+x]
}

// At bilinearly interpolates the field. Outside the sampled area the
// distance to the area is added, keeping the result positive there.
func (f *Field2D) At(p mgl32.Vec2) float32 {
	fx := (p.X()-f.Min.X())/f.Cell - 0.5
	fy := (p.Y()-f.Min.Y())/f.Cell - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := clamp(fx-float32(x0), 0, 1)
	ty := clamp(fy-float32(y0), 0, 1)

	a := f.value(x0, y0) + (f.value(x0+1, y0)-f.value(x0, y0))*tx
	b := f.value(x0, y0+1) + (f.value(x0+1, y0+1)-f.value(x0, y0+1))*tx
	d := a + (b-a)*ty

	maxX := f.Min.X() + float32(f.W)*f.Cell
	maxY := f.Min.Y() + float32(f.H)*f.Cell
	ox := max(f.Min.X()-p.X(), 0, p.X()-maxX)
	oy := max(f.Min.Y()-p.Y(), 0, p.Y()-maxY)
	if ox > 0 || oy > 0 {
		return max(d, 0) + mgl32.Vec2{ox, oy}.Len()
	}
	return d
}

// Depth is the deepest inside distance, the outline's inradius estimate.
func (f *Field2D) Depth() float32 {
	var deepest float32
	for _, v := range f.Values {
		deepest = min(deepest, v)
	}
	return -deepest
}
