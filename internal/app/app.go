//go:build ebiten

package app

import (
	"time"

	"outbreak/internal/core"
	"outbreak/internal/driver"
	"outbreak/internal/layout"
	"outbreak/internal/outbreak"
	"outbreak/internal/render"
	"outbreak/internal/session"
	"outbreak/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts an outbreak session to the ebiten.Game interface.
type Game struct {
	sess    *session.Session
	tracker *render.Tracker
	canvas  *render.Canvas
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay
	timer   *core.FixedStep

	// Days are revealed in order: a wave's batches one per frame, then the
	// day's resolutions.
	queue   []outbreak.DayResult
	reveal  [][]outbreak.IndividualID
	pending *outbreak.DayResult
	shown   outbreak.DayResult

	size     int
	hudWidth int
	runs     int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided session.
func New(sess *session.Session, cfg *Config) *Game {
	g := &Game{
		sess:     sess,
		painter:  render.NewPainter(cfg.Size),
		hud:      ui.NewHUD(sess, cfg.HUDWidth),
		overlay:  ui.NewOverlay(),
		timer:    core.NewFixedStep(cfg.DaysPerSecond),
		size:     cfg.Size,
		hudWidth: cfg.HUDWidth,
		seed:     sess.Config().Seed,
	}
	sess.Subscribe(driver.ConsumerFunc(func(res outbreak.DayResult) error {
		g.queue = append(g.queue, res)
		return nil
	}))
	g.rebuild()
	return g
}

// Reset restarts the outbreak with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	if err := g.sess.Reset(seed); err != nil {
		g.sess.Logger().Printf("app: reset with seed %d: %v", seed, err)
		return
	}
	g.tickOnce = false
	g.rebuild()
}

// rebuild resizes the view to the session's current run and clears
// everything drawn so far.
func (g *Game) rebuild() {
	n := g.sess.Population()
	if g.tracker == nil || g.tracker.Len() != n {
		g.tracker = render.NewTracker(n)
		g.canvas = render.NewCanvas(g.size, layout.Sunflower(n), render.DotRadius(g.size, n))
	} else {
		g.tracker.Reset()
	}
	g.queue = g.queue[:0]
	g.reveal = nil
	g.pending = nil
	g.shown = outbreak.DayResult{}
	g.runs = g.sess.Runs()
	g.timer.Reset()
}

// Update handles per-frame logic and advances the outbreak.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.timer.SetRate(g.timer.Rate() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.timer.SetRate(g.timer.Rate() / 2)
	}

	g.overlay.Update()
	g.hud.Update(g.size)
	if g.sess.Runs() != g.runs {
		g.seed = g.sess.Config().Seed
		g.rebuild()
	}

	if g.animate() {
		return nil
	}
	due := g.timer.ShouldStep() && !g.paused
	if (due || g.tickOnce) && !g.sess.Done() {
		g.tickOnce = false
		return g.sess.Step()
	}
	return nil
}

// animate advances the reveal by one frame. It reports false when there is
// nothing left to show.
func (g *Game) animate() bool {
	if len(g.reveal) > 0 {
		g.tracker.Infect(g.reveal[0])
		g.reveal = g.reveal[1:]
		return true
	}
	if g.pending != nil {
		g.tracker.Resolve(*g.pending)
		g.shown = *g.pending
		g.pending = nil
		return true
	}
	if len(g.queue) == 0 {
		return false
	}
	res := g.queue[0]
	g.queue = g.queue[1:]
	if len(res.NewlyInfected) > 1 {
		g.reveal = render.Batches(res.NewlyInfected, render.MaxRevealBatches)
		g.pending = &res
		return true
	}
	g.tracker.Apply(res)
	g.shown = res
	return true
}

// Draw renders the disc, the status overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.Draw(g.tracker)
	g.painter.Blit(screen, g.canvas, 0, 0)
	done := g.sess.Done() && g.pending == nil && len(g.queue) == 0
	g.overlay.Draw(screen, g.shown, g.paused, done)
	g.hud.Draw(screen, g.size, g.size)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size + g.hudWidth, g.size
}
