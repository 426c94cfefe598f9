package mirrors

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fogleman/gg"
)

var (
	PastelRed   = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
	PastelBlue  = color.RGBA{R: 0x74, G: 0xb9, B: 0xff, A: 0xff}
	PastelGreen = color.RGBA{R: 0x7b, G: 0xed, B: 0x9f, A: 0xff}
	Charcoal    = color.RGBA{R: 0x2d, G: 0x34, B: 0x36, A: 0xff}
)

// FadedPath is a traced path drawn with the given opacity
type FadedPath struct {
	Path    Path
	Opacity float64
}

// View draws a scene and traced paths into an image of XSize by YSize pixels
type View struct {
	Scene *Scene
	XSize int
	YSize int
	// Empty border around the walls, in pixels
	Margin float64
	// These cache the values needed to scale and translate from the scene to the requested image size
	scale      float64
	xTranslate float64
	yTranslate float64
}

func (view *View) computeScaleAndTranslation() {
	b := view.Scene.Bounds()
	innerX := float64(view.XSize) - 2*view.Margin
	innerY := float64(view.YSize) - 2*view.Margin
	XScale := innerX / (b.Max.X - b.Min.X)
	YScale := innerY / (b.Max.Y - b.Min.Y)
	view.scale = math.Min(XScale, YScale)
	view.xTranslate = -b.Min.X
	view.yTranslate = -b.Min.Y
}

func (view *View) translateAndScale(p r2.Vec) r2.Vec {
	if view.scale == 0 {
		view.computeScaleAndTranslation()
	}
	return V(
		(p.X+view.xTranslate)*view.scale+view.Margin,
		(p.Y+view.yTranslate)*view.scale+view.Margin,
	)
}

// Render draws walls, mirrors and each path in paths, oldest first
func (view *View) Render(paths []FadedPath) image.Image {
	c := gg.NewContext(view.XSize, view.YSize)
	c.SetColor(color.White)
	c.Clear()

	c.SetColor(Charcoal)
	c.SetLineWidth(4)
	for _, w := range view.Scene.walls {
		p1 := view.translateAndScale(w.P1)
		p2 := view.translateAndScale(w.P2)
		c.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		c.Stroke()
	}

	c.SetColor(PastelBlue)
	c.SetLineWidth(2)
	for _, m := range view.Scene.mirrors {
		center := view.translateAndScale(m.Center)
		c.DrawCircle(center.X, center.Y, m.Radius*view.scale)
		c.Stroke()
	}

	for _, fp := range paths {
		if len(fp.Path) == 0 || fp.Opacity <= 0 {
			continue
		}
		c.SetRGBA(float64(PastelRed.R)/255, float64(PastelRed.G)/255, float64(PastelRed.B)/255, math.Min(fp.Opacity, 1))
		c.SetLineWidth(1.5)
		start := view.translateAndScale(fp.Path[0].From)
		c.MoveTo(start.X, start.Y)
		for _, s := range fp.Path {
			p := view.translateAndScale(s.To)
			c.LineTo(p.X, p.Y)
		}
		c.Stroke()
	}

	origin := view.translateAndScale(view.Scene.origin)
	c.SetColor(PastelGreen)
	c.DrawCircle(origin.X, origin.Y, 4)
	c.Fill()

	return c.Image()
}

// SaveImage writes i to filename as a PNG
func SaveImage(filename string, i image.Image) error {
	if err := gg.SavePNG(filename, i); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}

// PlotSweep charts total path length against launch angle and saves it to filename.
// The format is chosen from the file extension.
func PlotSweep(results []SweepResult, width, height float64, filename string) error {
	p := plot.New()
	p.Title.Text = "Path length by launch angle"
	p.X.Label.Text = "Angle (degrees)"
	p.Y.Label.Text = "Path length"

	lengths := make(plotter.XYs, len(results))
	escaped := make(plotter.XYs, 0)
	for i, r := range results {
		lengths[i].X = r.AngleDeg
		lengths[i].Y = r.Length
		if r.Escaped {
			escaped = append(escaped, plotter.XY{X: r.AngleDeg, Y: r.Length})
		}
	}

	line, err := plotter.NewLine(lengths)
	if err != nil {
		return fmt.Errorf("building length line: %w", err)
	}
	line.Color = PastelBlue
	p.Add(line)

	if len(escaped) > 0 {
		scatter, err := plotter.NewScatter(escaped)
		if err != nil {
			return fmt.Errorf("building escape markers: %w", err)
		}
		scatter.GlyphStyle.Color = PastelRed
		p.Add(scatter)
		p.Legend.Add("escaped", scatter)
	}

	if err := p.Save(vg.Points(width), vg.Points(height), filename); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
