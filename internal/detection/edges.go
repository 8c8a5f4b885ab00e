package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
)

// edgeThreshold is the luma step that counts as an edge.
const edgeThreshold = 30

// Forward differences against the right and lower neighbour.
var (
	stepRight = convolution.Kernel{
		Matrix: []float64{
			0, 0, 0,
			0, -1, 1,
			0, 0, 0,
		},
		Width:  3,
		Height: 3,
	}
	stepDown = convolution.Kernel{
		Matrix: []float64{
			0, 0, 0,
			0, -1, 0,
			0, 1, 0,
		},
		Width:  3,
		Height: 3,
	}
)

// detectEdges marks pixels whose luma differs from the right or lower
// neighbour by more than edgeThreshold. The outermost ring is never an edge.
//
// Convolution clamps negative responses to zero, so the plane carries luma in
// R and inverted luma in G: R sees steps up, G sees steps down.
func detectEdges(img image.Image, width, height int) [][]bool {
	bounds := img.Bounds()
	plane := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := uint8(math.Min(255, math.Round(grayValue(img, x+bounds.Min.X, y+bounds.Min.Y))))
			i := plane.PixOffset(x, y)
			plane.Pix[i], plane.Pix[i+1], plane.Pix[i+2], plane.Pix[i+3] = l, 255-l, l, 255
		}
	}

	opts := &convolution.Options{KeepAlpha: true}
	dx := convolution.Convolve(plane, &stepRight, opts)
	dy := convolution.Convolve(plane, &stepDown, opts)

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			i := dx.PixOffset(x, y)
			if dx.Pix[i] > edgeThreshold || dx.Pix[i+1] > edgeThreshold ||
				dy.Pix[i] > edgeThreshold || dy.Pix[i+1] > edgeThreshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// grayValue returns the luma of the pixel at (x, y), using the same weights as
// the binarization filter.
func grayValue(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return imaging.Luma(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// integral is a summed-area table over an edge map; sum answers the number of
// edge pixels in any rectangle in constant time.
type integral struct {
	w, h int
	s    []int
}

func newIntegral(edges [][]bool, width, height int) *integral {
	in := &integral{w: width + 1, h: height + 1, s: make([]int, (width+1)*(height+1))}
	for y := 0; y < height; y++ {
		row := 0
		for x := 0; x < width; x++ {
			if edges[y][x] {
				row++
			}
			in.s[(y+1)*in.w+x+1] = in.s[y*in.w+x+1] + row
		}
	}
	return in
}

// sum counts edge pixels in [x, x+w) x [y, y+h).
func (in *integral) sum(x, y, w, h int) int {
	a := in.s[y*in.w+x]
	b := in.s[y*in.w+x+w]
	c := in.s[(y+h)*in.w+x]
	d := in.s[(y+h)*in.w+x+w]
	return d - b - c + a
}
