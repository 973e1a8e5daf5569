package game

import "math"

const (
	DefaultBallRadius = 7
	DefaultMaxSpeed   = 700 // Units per second
	BaseServeSpeed    = 250
	MinServeAxisSpeed = 100 // Serves never leave an axis slower than this
)

// Ball is the match ball. Position is the center, speeds are canvas units per second.
type Ball struct {
	X, Y           float64
	SpeedX, SpeedY float64
	Radius         float64
	MaxSpeed       float64
}

func NewBall(x, y, radius, maxSpeed float64) Ball {
	return Ball{X: x, Y: y, Radius: radius, MaxSpeed: maxSpeed}
}

// Move advances the ball by its velocity over dt seconds
func (b *Ball) Move(dt float64) {
	b.X += b.SpeedX * dt
	b.Y += b.SpeedY * dt
}

// Speed returns the velocity magnitude
func (b *Ball) Speed() float64 {
	return math.Hypot(b.SpeedX, b.SpeedY)
}

// CapSpeed scales the velocity down to MaxSpeed, keeping its direction
func (b *Ball) CapSpeed() {
	speed := b.Speed()
	if speed <= b.MaxSpeed || speed == 0 {
		return
	}
	scale := b.MaxSpeed / speed
	b.SpeedX *= scale
	b.SpeedY *= scale
}

// Center places the ball at the given point with no velocity
func (b *Ball) Center(x, y float64) {
	b.X = x
	b.Y = y
	b.SpeedX = 0
	b.SpeedY = 0
}
