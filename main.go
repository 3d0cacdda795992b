package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/input"
	"github.com/Kat-Oli/Purrcraft/player"
	"github.com/Kat-Oli/Purrcraft/terrain"
	"github.com/Kat-Oli/Purrcraft/world"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

// Frames longer than this are clamped so a stall does not tunnel the player
// through the ground.
const maxFrameDelta = 0.1

type app struct {
	cfg *config.Config
	log *slog.Logger

	window   *glfw.Window
	monitor  *glfw.Monitor
	display  *display
	camera   *camera
	scene    *chunkScene
	sky      *sky
	hud      *hud
	world    *world.World
	player   *player.Player
	tracker  *input.Tracker
	bindings map[glfw.Key]input.Key

	showDebug    bool
	firstMouse   bool
	lastX, lastY float64
}

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "world seed")
	renderDistance := flag.Int("render-distance", 0, "chunk render distance")
	workers := flag.Int("workers", 0, "chunk generation workers (0 generates on the main thread)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = *seed
		case "render-distance":
			cfg.World.RenderDistance = *renderDistance
		case "workers":
			cfg.World.Workers = *workers
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = supervise(ctx, cfg.Window.MaxRestarts, log, os.Stderr, func(ctx context.Context) error {
		return run(ctx, cfg, log)
	})
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// supervise runs body until it returns nil. Each failure is logged and
// written to notice, then body starts over with fresh state, at most
// maxRestarts times. The last failure is returned once restarts run out or
// ctx is done.
func supervise(ctx context.Context, maxRestarts int, log *slog.Logger, notice io.Writer, body func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := runGuarded(ctx, body)
		if err == nil {
			return nil
		}
		log.Error("something went wrong", "error", err, "attempt", attempt)
		fmt.Fprintf(notice, "\nPurrcraft stopped because of an error:\n  %v\n\n", err)
		if attempt > maxRestarts || ctx.Err() != nil {
			return err
		}
		fmt.Fprintln(notice, "Restarting...")
	}
}

// runGuarded turns a panic anywhere in body into an error.
func runGuarded(ctx context.Context, body func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return body(ctx)
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	if cfg.Window.Vsync {
		glfw.SwapInterval(1)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	a, err := newApp(cfg, log, window)
	if err != nil {
		return err
	}
	defer a.close()
	return a.loop(ctx)
}

func newApp(cfg *config.Config, log *slog.Logger, window *glfw.Window) (*app, error) {
	bindings, err := keyBindings(cfg.Controls)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:      cfg,
		log:      log,
		window:   window,
		tracker:  input.NewTracker(),
		bindings: bindings,
		camera:   &camera{orientation: mgl64.QuatIdent()},
		display: &display{
			fov:  float32(cfg.Window.FOV),
			near: float32(cfg.Window.Near),
			far:  float32(cfg.Window.Far),
		},
		showDebug:  cfg.Window.ShowDebug,
		firstMouse: true,
	}

	atlas, err := loadTextureAtlas(cfg.Assets.Atlas, cfg.Assets.AtlasColumns, log)
	if err != nil {
		return nil, err
	}
	if a.scene, err = newChunkScene(atlas); err != nil {
		return nil, err
	}
	if a.sky, err = newSky(); err != nil {
		return nil, err
	}
	if a.hud, err = newHUD(); err != nil {
		return nil, err
	}

	gen, err := terrain.FromConfig(cfg.Terrain, cfg.World.Seed)
	if err != nil {
		return nil, err
	}
	a.world = world.New(cfg.World, cfg.Assets.AtlasColumns, gen, a.scene, log.With("component", "world"))
	a.player = player.New(cfg.Player)
	if cfg.Player.SpawnOnSurface {
		x, z := cfg.Player.Spawn[0], cfg.Player.Spawn[2]
		a.player.PlaceFeet(x, gen.SurfaceAt(x, z), z)
	}
	a.world.SetPlayer(a.player)
	a.camera.SetPose(a.player.Position, a.player.Orientation())
	log.Info("world created",
		"seed", cfg.World.Seed,
		"player", a.player.ID,
		"spawn", a.player.Position,
		"biomes", len(gen.Biomes()),
		"workers", cfg.World.Workers,
	)

	window.SetKeyCallback(a.onKey)
	window.SetCursorPosCallback(a.onMouseMove)
	window.SetMouseButtonCallback(a.onMouseButton)
	window.SetFocusCallback(a.onFocus)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return a, nil
}

func (a *app) loop(ctx context.Context) error {
	var (
		previousFrame = time.Now()
		fpsStart      = previousFrame
		frameCount    int
		fps           float64
	)
	gl.ClearColor(0.75, 0.86, 1.0, 1.0)

	for !a.window.ShouldClose() {
		if ctx.Err() != nil {
			a.log.Info("shutting down", "reason", ctx.Err())
			return nil
		}
		now := time.Now()
		delta := math.Min(now.Sub(previousFrame).Seconds(), maxFrameDelta)
		previousFrame = now

		glfw.PollEvents()
		a.display.refresh(a.window)
		a.world.Step(delta, a.tracker.Snapshot(), a.camera)

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		projection := a.display.projection()
		view := a.camera.view()
		a.sky.render(projection, view)
		a.scene.render(projection, view)

		frameCount++
		if elapsed := now.Sub(fpsStart); elapsed >= 100*time.Millisecond {
			fps = float64(frameCount) / elapsed.Seconds()
			frameCount = 0
			fpsStart = now
		}
		if a.showDebug {
			if err := a.hud.setLines(a.debugLines(fps)...); err != nil {
				return err
			}
			a.hud.render(a.display.Width(), a.display.Height())
		}

		a.window.SwapBuffers()
	}
	return nil
}

func (a *app) debugLines(fps float64) []string {
	p := a.player
	feet := p.Feet()
	b := a.world.BlockAt(int(math.Floor(feet.X())), int(math.Floor(feet.Y()-0.01)), int(math.Floor(feet.Z())))
	return []string{
		fmt.Sprintf("FPS: %.1f", fps),
		fmt.Sprintf("XYZ: %.2f / %.2f / %.2f", p.Position.X(), p.Position.Y(), p.Position.Z()),
		fmt.Sprintf("Velocity: %.2f", p.Velocity.Y()),
		fmt.Sprintf("Grounded: %t (%s)", p.CanJump, b),
		fmt.Sprintf("Chunks: %d loaded, %d pending, %d faces", a.world.Len(), a.world.Pending(), a.scene.faces),
		fmt.Sprintf("Player: %s", p.ID),
	}
}

func (a *app) close() {
	a.world.Close()
	if a.hud != nil {
		a.hud.delete()
	}
	if a.sky != nil {
		a.sky.delete()
	}
	if a.scene != nil {
		a.scene.delete()
	}
}
