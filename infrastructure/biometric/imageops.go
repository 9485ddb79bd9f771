package biometric

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// grayImage is a float32 luma plane. All pixel math in this package runs on
// it rather than on image.Image to keep the hot loops allocation-free.
type grayImage struct {
	pix []float32
	w   int
	h   int
}

func decodeImage(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func toGray(img image.Image) *grayImage {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	g := &grayImage{pix: make([]float32, w*h), w: w, h: h}
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			r := float32(row[x*4])
			gr := float32(row[x*4+1])
			b := float32(row[x*4+2])
			g.pix[y*w+x] = 0.299*r + 0.587*gr + 0.114*b
		}
	}
	return g
}

func (g *grayImage) at(x, y int) float32 {
	return g.pix[y*g.w+x]
}

// crop clips rect to the image bounds and returns a copy. A fully
// out-of-bounds rect yields an empty plane.
func (g *grayImage) crop(rect image.Rectangle) *grayImage {
	rect = rect.Intersect(image.Rect(0, 0, g.w, g.h))
	if rect.Empty() {
		return &grayImage{}
	}
	out := &grayImage{pix: make([]float32, rect.Dx()*rect.Dy()), w: rect.Dx(), h: rect.Dy()}
	for y := 0; y < out.h; y++ {
		copy(out.pix[y*out.w:(y+1)*out.w], g.pix[(rect.Min.Y+y)*g.w+rect.Min.X:(rect.Min.Y+y)*g.w+rect.Min.X+out.w])
	}
	return out
}

// mean returns average luma in [0, 255].
func (g *grayImage) mean() float64 {
	if len(g.pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.pix {
		sum += float64(v)
	}
	return sum / float64(len(g.pix))
}

// stddev returns the luma standard deviation, the contrast measure used by
// the lighting check.
func (g *grayImage) stddev() float64 {
	if len(g.pix) == 0 {
		return 0
	}
	mean := g.mean()
	var sum float64
	for _, v := range g.pix {
		d := float64(v) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(g.pix)))
}

// laplacianVariance is the focus measure: variance of the 4-neighbour
// Laplacian response. Low values mean a blurry or featureless plane.
func laplacianVariance(g *grayImage) float64 {
	if g.w < 3 || g.h < 3 {
		return 0
	}
	n := (g.w - 2) * (g.h - 2)
	responses := make([]float64, 0, n)
	var sum float64
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			lap := float64(g.at(x-1, y) + g.at(x+1, y) + g.at(x, y-1) + g.at(x, y+1) - 4*g.at(x, y))
			responses = append(responses, lap)
			sum += lap
		}
	}
	mean := sum / float64(n)
	var variance float64
	for _, r := range responses {
		d := r - mean
		variance += d * d
	}
	return variance / float64(n)
}

// edgeDensity is the fraction of pixels whose Sobel gradient magnitude
// crosses threshold. Used for the eyewear and facial-mark checks.
func edgeDensity(g *grayImage, threshold float64) float64 {
	if g.w < 3 || g.h < 3 {
		return 0
	}
	edges := 0
	total := 0
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			gx := float64(-g.at(x-1, y-1) - 2*g.at(x-1, y) - g.at(x-1, y+1) +
				g.at(x+1, y-1) + 2*g.at(x+1, y) + g.at(x+1, y+1))
			gy := float64(-g.at(x-1, y-1) - 2*g.at(x, y-1) - g.at(x+1, y-1) +
				g.at(x-1, y+1) + 2*g.at(x, y+1) + g.at(x+1, y+1))
			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(edges) / float64(total)
}

// edgeCount is edgeDensity without the normalisation, for checks that compare
// absolute edge pixel counts between small fixed regions.
func edgeCount(g *grayImage, threshold float64) float64 {
	if g.w < 3 || g.h < 3 {
		return 0
	}
	edges := 0
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			gx := float64(-g.at(x-1, y-1) - 2*g.at(x-1, y) - g.at(x-1, y+1) +
				g.at(x+1, y-1) + 2*g.at(x+1, y) + g.at(x+1, y+1))
			gy := float64(-g.at(x-1, y-1) - 2*g.at(x, y-1) - g.at(x+1, y-1) +
				g.at(x-1, y+1) + 2*g.at(x, y+1) + g.at(x+1, y+1))
			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges++
			}
		}
	}
	return float64(edges)
}

// gaborKernel builds one odd-sized Gabor kernel for the given orientation.
func gaborKernel(size int, sigma, theta, lambda, gamma float64) []float64 {
	kernel := make([]float64, size*size)
	half := size / 2
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			xt := float64(x)*math.Cos(theta) + float64(y)*math.Sin(theta)
			yt := -float64(x)*math.Sin(theta) + float64(y)*math.Cos(theta)
			kernel[(y+half)*size+(x+half)] = math.Exp(-(xt*xt+gamma*gamma*yt*yt)/(2*sigma*sigma)) *
				math.Cos(2*math.Pi*xt/lambda)
		}
	}
	return kernel
}

// gaborTextureStd measures skin texture as the standard deviation of Gabor
// responses averaged over four orientations. Texture drift between captures
// feeds the age-variation check.
func gaborTextureStd(g *grayImage) float64 {
	const size = 9
	if g.w < size || g.h < size {
		return 0
	}
	orientations := []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}
	var total float64
	for _, theta := range orientations {
		kernel := gaborKernel(size, 2.5, theta, 6.0, 0.5)
		half := size / 2
		n := 0
		var sum, sumSq float64
		for y := half; y < g.h-half; y += 2 {
			for x := half; x < g.w-half; x += 2 {
				var resp float64
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						resp += kernel[(ky+half)*size+(kx+half)] * float64(g.at(x+kx, y+ky))
					}
				}
				sum += resp
				sumSq += resp * resp
				n++
			}
		}
		if n > 0 {
			mean := sum / float64(n)
			total += math.Sqrt(math.Max(0, sumSq/float64(n)-mean*mean))
		}
	}
	return total / float64(len(orientations))
}

// enhanceContrast stretches luma to the full range, matching the
// pre-processing the facial-mark check applies before edge counting.
func enhanceContrast(g *grayImage) *grayImage {
	if len(g.pix) == 0 {
		return g
	}
	minV, maxV := g.pix[0], g.pix[0]
	for _, v := range g.pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	out := &grayImage{pix: make([]float32, len(g.pix)), w: g.w, h: g.h}
	span := maxV - minV
	if span < 1 {
		copy(out.pix, g.pix)
		return out
	}
	for i, v := range g.pix {
		out.pix[i] = (v - minV) / span * 255
	}
	return out
}

// resizeGray scales through imaging's Lanczos filter and converts back to a
// luma plane.
func resizeGray(img image.Image, w, h int) *grayImage {
	return toGray(imaging.Resize(img, w, h, imaging.Lanczos))
}
