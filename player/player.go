package player

import (
	"math"

	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/input"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	// groundProbe is how far below the feet the ground test samples.
	groundProbe = 0.008
	// stepIncrement and stepMargin drive the upward scan that pulls the feet
	// out of the ground after a landing.
	stepIncrement = 0.01
	stepMargin    = 0.05
	// jumpNudge lifts the feet clear of the probe so the jump tick is airborne.
	jumpNudge = 0.01
)

// Blocks is the part of the world the player collides with.
type Blocks interface {
	BlockAt(x, y, z int) block.Block
}

// Camera receives the player's eye pose once per tick.
type Camera interface {
	SetPose(position mgl64.Vec3, orientation mgl64.Quat)
}

// Player is a point body with its eye at Position and its feet EyeHeight
// below. Yaw turns about -Y and pitch about -X.
type Player struct {
	ID       uuid.UUID
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Yaw      float64
	Pitch    float64
	CanJump  bool

	speed       float64
	jumpSpeed   float64
	gravity     float64
	eyeHeight   float64
	sensitivity float64
}

func New(cfg config.PlayerConfig) *Player {
	return &Player{
		ID:          uuid.New(),
		Position:    mgl64.Vec3{cfg.Spawn[0], cfg.Spawn[1], cfg.Spawn[2]},
		speed:       cfg.Speed,
		jumpSpeed:   cfg.JumpSpeed,
		gravity:     cfg.Gravity,
		eyeHeight:   cfg.EyeHeight,
		sensitivity: cfg.MouseSensitivity,
	}
}

func (p *Player) Feet() mgl64.Vec3 {
	return p.Position.Sub(mgl64.Vec3{0, p.eyeHeight, 0})
}

// PlaceFeet moves the player so its feet rest at y.
func (p *Player) PlaceFeet(x, y, z float64) {
	p.Position = mgl64.Vec3{x, y + p.eyeHeight, z}
}

// Tick advances the player by delta seconds: jump edges, look, walk,
// ground collision and gravity, then velocity integration. cam may be nil.
func (p *Player) Tick(blocks Blocks, in input.Snapshot, delta float64, cam Camera) {
	for _, k := range in.Pressed {
		if k == input.Jump {
			p.Jump()
		}
	}
	p.Look(in.MouseDX, in.MouseDY)
	p.walk(in, delta)
	p.collideFeet(blocks, delta)
	p.Position = p.Position.Add(p.Velocity.Mul(delta))
	if cam != nil {
		cam.SetPose(p.Position, p.Orientation())
	}
}

// Jump launches the player if it is standing on something and reports
// whether it did.
func (p *Player) Jump() bool {
	if !p.CanJump {
		return false
	}
	p.Position[1] += jumpNudge
	p.Velocity[1] = p.jumpSpeed
	return true
}

// Look turns by a mouse delta. Pitch stops at straight up and straight down.
func (p *Player) Look(dx, dy float64) {
	p.Yaw += dx * p.sensitivity
	p.Pitch = mgl64.Clamp(p.Pitch+dy*p.sensitivity, -math.Pi/2, math.Pi/2)
}

// Forward is the unit walking direction for the current yaw.
func (p *Player) Forward() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(p.Yaw), 0, -math.Cos(p.Yaw)}
}

// Right is Forward turned a quarter turn clockwise seen from above.
func (p *Player) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(p.Yaw), 0, math.Sin(p.Yaw)}
}

func (p *Player) walk(in input.Snapshot, delta float64) {
	step := p.speed * delta
	if in.IsHeld(input.Forward) {
		p.Position = p.Position.Add(p.Forward().Mul(step))
	}
	if in.IsHeld(input.Back) {
		p.Position = p.Position.Sub(p.Forward().Mul(step))
	}
	if in.IsHeld(input.Left) {
		p.Position = p.Position.Sub(p.Right().Mul(step))
	}
	if in.IsHeld(input.Right) {
		p.Position = p.Position.Add(p.Right().Mul(step))
	}
}

func (p *Player) collideFeet(blocks Blocks, delta float64) {
	feet := p.Feet()
	if !solidAt(blocks, feet.X(), feet.Y()-groundProbe, feet.Z()) {
		p.CanJump = false
		p.Velocity[1] -= p.gravity * delta
		return
	}

	p.CanJump = true
	limit := math.Abs(p.Velocity.Y()) + stepMargin
	for v := 0.0; v < limit; v += stepIncrement {
		if !solidAt(blocks, feet.X(), feet.Y()+v, feet.Z()) {
			p.Position[1] = math.Floor(feet.Y()+v) + p.eyeHeight
			break
		}
	}
	p.Velocity[1] = 0
}

func solidAt(blocks Blocks, x, y, z float64) bool {
	return blocks.BlockAt(int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))).IsSolid()
}

// Orientation is the eye rotation: yaw about -Y, then pitch about -X.
func (p *Player) Orientation() mgl64.Quat {
	yaw := mgl64.QuatRotate(p.Yaw, mgl64.Vec3{0, -1, 0})
	pitch := mgl64.QuatRotate(p.Pitch, mgl64.Vec3{-1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}
