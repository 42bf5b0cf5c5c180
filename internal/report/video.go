package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"outbreak/internal/driver"
	"outbreak/internal/layout"
	"outbreak/internal/outbreak"
	"outbreak/internal/render"
)

const (
	headerHeight = 40
	videoQuality = 90
)

// VideoOptions configures a Video.
type VideoOptions struct {
	Size int
	FPS  int

	// Dot is the marker half-width; zero picks one from the population.
	Dot int

	// Reveal adds one frame per batch of a wave's new infections.
	Reveal bool
}

// DefaultVideoOptions renders a 480px disc at 24 frames per second.
func DefaultVideoOptions() VideoOptions {
	return VideoOptions{Size: 480, FPS: 24, Reveal: true}
}

// Video is a driver consumer that writes one MJPEG frame per day, plus
// reveal frames while a wave is drawn in.
type Video struct {
	opts    VideoOptions
	writer  mjpeg.AviWriter
	canvas  *render.Canvas
	tracker *render.Tracker
	frame   *image.RGBA
	buf     bytes.Buffer
	frames  int
	closed  bool
}

// NewVideo creates the AVI file at path for a population of n.
func NewVideo(path string, n int, opts VideoOptions) (*Video, error) {
	def := DefaultVideoOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	// Motion JPEG wants even dimensions.
	opts.Size += opts.Size % 2
	if opts.Dot <= 0 {
		opts.Dot = render.DotRadius(opts.Size, n)
	}

	w, err := mjpeg.New(path, int32(opts.Size), int32(opts.Size+headerHeight), int32(opts.FPS))
	if err != nil {
		return nil, fmt.Errorf("report: create video: %w", err)
	}
	return &Video{
		opts:    opts,
		writer:  w,
		canvas:  render.NewCanvas(opts.Size, layout.Sunflower(n), opts.Dot),
		tracker: render.NewTracker(n),
		frame:   image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size+headerHeight)),
	}, nil
}

// Consume draws res, revealing its new infections first.
func (v *Video) Consume(res outbreak.DayResult) error {
	if v.opts.Reveal && len(res.NewlyInfected) > 1 {
		prev := v.tracker.Last()
		for _, batch := range render.Batches(res.NewlyInfected, render.MaxRevealBatches) {
			v.tracker.Infect(batch)
			if err := v.addFrame(prev); err != nil {
				return err
			}
		}
	}
	v.tracker.Apply(res)
	return v.addFrame(res)
}

// Finish closes the file once the run resolves.
func (v *Video) Finish(driver.Summary) error { return v.Close() }

// Frames returns how many frames have been written.
func (v *Video) Frames() int { return v.frames }

// Close finalizes the AVI index. It is safe to call more than once.
func (v *Video) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	if err := v.writer.Close(); err != nil {
		return fmt.Errorf("report: close video: %w", err)
	}
	return nil
}

func (v *Video) addFrame(status outbreak.DayResult) error {
	if v.closed {
		return fmt.Errorf("report: video already closed")
	}
	v.canvas.Draw(v.tracker)

	draw.Draw(v.frame, v.frame.Bounds(), image.NewUniform(render.Background), image.Point{}, draw.Src)
	disc := image.Rect(0, headerHeight, v.opts.Size, headerHeight+v.opts.Size)
	draw.Draw(v.frame, disc, v.canvas.Image(), image.Point{}, draw.Src)
	drawStatus(v.frame, status)

	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, v.frame, &jpeg.Options{Quality: videoQuality}); err != nil {
		return fmt.Errorf("report: encode frame: %w", err)
	}
	if err := v.writer.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("report: add frame: %w", err)
	}
	v.frames++
	return nil
}

func drawStatus(img *image.RGBA, res outbreak.DayResult) {
	addLabel(img, 8, 16, fmt.Sprintf("Day %d", res.Day), render.Dead)
	addLabel(img, 8, 32, fmt.Sprintf("Infected %d", res.CurrentlyInfected), render.Infected)
	addLabel(img, 140, 32, fmt.Sprintf("Recovered %d", res.TotalRecovered), render.Recovered)
	addLabel(img, 280, 32, fmt.Sprintf("Deaths %d", res.TotalDead), render.Dead)
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}
