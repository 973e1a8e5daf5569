package game

import (
	"math"
	"math/rand"
)

// Preset holds the tuning of the collision rules.
type Preset struct {
	Name string

	EdgeThreshold       float64 // |relative intersect| above this is an edge hit
	MaxBounceAngle      float64 // Radians, reached at the edge threshold
	AngleJitter         float64 // Radians, uniform +/-
	SpeedMultiplier     float64 // Applied on every paddle bounce
	EdgeHorizontalRatio float64
	EdgeVerticalRatio   float64
	MinHorizontalRatio  float64 // Minimum normal component after a paddle bounce, as a share of speed
	WallPerturbation    float64 // Relative, uniform +/-
	MinWallSpeed        float64 // Minimum |speedY| after a wall bounce
}

// ClassicPreset is used by every playable mode.
func ClassicPreset() Preset {
	return Preset{
		Name:                "classic",
		EdgeThreshold:       0.8,
		MaxBounceAngle:      math.Pi / 3.5,
		AngleJitter:         0.05,
		SpeedMultiplier:     1.05,
		EdgeHorizontalRatio: 0.8,
		EdgeVerticalRatio:   0.6,
		MinHorizontalRatio:  0.7,
		WallPerturbation:    0.05,
		MinWallSpeed:        50,
	}
}

// PredictionPreset is ClassicPreset without randomness, for forward simulation.
func PredictionPreset() Preset {
	p := ClassicPreset()
	p.Name = "prediction"
	p.AngleJitter = 0
	p.WallPerturbation = 0
	return p
}

// Resolver applies collision responses to a ball. A nil rng disables every
// random term; serves then go right and down at the middle angle.
type Resolver struct {
	Preset Preset
	rng    *rand.Rand
}

func NewResolver(preset Preset, rng *rand.Rand) *Resolver {
	return &Resolver{Preset: preset, rng: rng}
}

// jitter returns a uniform value in [-amount, amount]
func (r *Resolver) jitter(amount float64) float64 {
	if amount == 0 || r.rng == nil {
		return 0
	}
	return (r.rng.Float64()*2 - 1) * amount
}

func (r *Resolver) float() float64 {
	if r.rng == nil {
		return 0.5
	}
	return r.rng.Float64()
}

func (r *Resolver) coin() bool {
	if r.rng == nil {
		return false
	}
	return r.rng.Intn(2) == 0
}

// Walls reflects the ball off the top and bottom boundaries. It returns true
// when a bounce happened.
func (r *Resolver) Walls(b *Ball, top, bottom float64) bool {
	switch {
	case b.Y-b.Radius <= top && b.SpeedY < 0:
		b.Y = top + b.Radius
	case b.Y+b.Radius >= bottom && b.SpeedY > 0:
		b.Y = bottom - b.Radius
	default:
		return false
	}

	b.SpeedY = -b.SpeedY * (1 + r.jitter(r.Preset.WallPerturbation))
	if math.Abs(b.SpeedY) < r.Preset.MinWallSpeed {
		b.SpeedY = sign(b.SpeedY) * r.Preset.MinWallSpeed
	}
	b.CapSpeed()
	return true
}

// paddleFrame maps a paddle onto normal/tangent coordinates so one sweep
// handles all four sides.
type paddleFrame struct {
	vertical bool    // Normal axis is x
	outward  float64 // Sign of the face normal along the normal axis
	face     float64 // Normal coordinate of the face the ball hits
	depth    float64 // Paddle thickness
	lo, hi   float64 // Tangent extent
}

func frameOf(p *Paddle) paddleFrame {
	f := paddleFrame{vertical: p.Side.Vertical()}
	switch p.Side {
	case SideLeft:
		f.outward, f.face, f.depth = 1, p.X+p.Width, p.Width
	case SideRight:
		f.outward, f.face, f.depth = -1, p.X, p.Width
	case SideTop:
		f.outward, f.face, f.depth = 1, p.Y+p.Height, p.Height
	case SideBottom:
		f.outward, f.face, f.depth = -1, p.Y, p.Height
	}
	if f.vertical {
		f.lo, f.hi = p.Y, p.Y+p.Height
	} else {
		f.lo, f.hi = p.X, p.X+p.Width
	}
	return f
}

func (f paddleFrame) normal(x, y float64) float64 {
	if f.vertical {
		return x
	}
	return y
}

func (f paddleFrame) tangent(x, y float64) float64 {
	if f.vertical {
		return y
	}
	return x
}

// set writes normal/tangent components back as x/y
func (f paddleFrame) set(n, t float64) (x, y float64) {
	if f.vertical {
		return n, t
	}
	return t, n
}

// RelativeIntersect returns where impact lies along [lo, hi], from -1 to 1.
// A degenerate extent counts as a center hit.
func RelativeIntersect(impact, lo, hi float64) float64 {
	half := (hi - lo) / 2
	if !(half > 0) {
		return 0
	}
	rel := (impact - (lo + half)) / half
	if math.IsNaN(rel) {
		return 0
	}
	return clamp(rel, -1, 1)
}

// Paddle runs a swept test of the ball against p, using the ball position
// before this frame's move. Only a ball travelling toward the paddle face can
// hit it. On contact the velocity is rebuilt from the impact point and the
// ball is pushed back in front of the face.
func (r *Resolver) Paddle(b *Ball, p *Paddle, prevX, prevY float64) bool {
	f := frameOf(p)

	if f.normal(b.SpeedX, b.SpeedY)*f.outward >= 0 {
		return false
	}

	// Gap between the ball's leading edge and the face, positive in front of it.
	prevGap := (f.normal(prevX, prevY)-f.outward*b.Radius-f.face) * f.outward
	currGap := (f.normal(b.X, b.Y)-f.outward*b.Radius-f.face) * f.outward
	if currGap > 0 {
		return false
	}

	t := 1.0
	if prevGap >= 0 {
		// No motion toward the face this frame, e.g. dt == 0.
		if prevGap-currGap <= 0 {
			return false
		}
		t = prevGap / (prevGap - currGap)
	} else if currGap < -(f.depth + 2*b.Radius) {
		// Already behind the paddle.
		return false
	}

	prevT := f.tangent(prevX, prevY)
	impact := prevT + (f.tangent(b.X, b.Y)-prevT)*t
	if impact < f.lo-b.Radius || impact > f.hi+b.Radius {
		return false
	}

	rel := RelativeIntersect(impact, f.lo, f.hi)
	speed := math.Min(b.Speed()*r.Preset.SpeedMultiplier, b.MaxSpeed)

	var vn, vt float64
	if math.Abs(rel) > r.Preset.EdgeThreshold {
		vn = speed * r.Preset.EdgeHorizontalRatio
		vt = sign(rel) * speed * r.Preset.EdgeVerticalRatio
	} else {
		angle := clamp(rel, -r.Preset.EdgeThreshold, r.Preset.EdgeThreshold)*r.Preset.MaxBounceAngle +
			r.jitter(r.Preset.AngleJitter)
		vn = speed * math.Cos(angle)
		vt = speed * math.Sin(angle)
		if vn < speed*r.Preset.MinHorizontalRatio {
			vn = speed * r.Preset.MinHorizontalRatio
		}
	}

	b.SpeedX, b.SpeedY = f.set(vn*f.outward, vt)
	b.X, b.Y = f.set(f.face+f.outward*b.Radius, impact)
	b.CapSpeed()
	return true
}

// Bricks bounces the ball off the first active brick it overlaps and
// deactivates that brick. It returns the brick index, or -1.
func (r *Resolver) Bricks(b *Ball, bricks []Brick) int {
	for i := range bricks {
		br := &bricks[i]
		if !br.Active {
			continue
		}

		closestX := clamp(b.X, br.X, br.X+br.W)
		closestY := clamp(b.Y, br.Y, br.Y+br.H)
		dx, dy := b.X-closestX, b.Y-closestY
		if dx*dx+dy*dy > b.Radius*b.Radius {
			continue
		}

		// Bounce on the axis with the smallest penetration.
		overlapX := math.Min(b.X+b.Radius-br.X, br.X+br.W-(b.X-b.Radius))
		overlapY := math.Min(b.Y+b.Radius-br.Y, br.Y+br.H-(b.Y-b.Radius))
		if overlapX < overlapY {
			if b.X < br.X+br.W/2 {
				b.SpeedX = -math.Abs(b.SpeedX)
				b.X = br.X - b.Radius
			} else {
				b.SpeedX = math.Abs(b.SpeedX)
				b.X = br.X + br.W + b.Radius
			}
		} else {
			if b.Y < br.Y+br.H/2 {
				b.SpeedY = -math.Abs(b.SpeedY)
				b.Y = br.Y - b.Radius
			} else {
				b.SpeedY = math.Abs(b.SpeedY)
				b.Y = br.Y + br.H + b.Radius
			}
		}

		br.Active = false
		b.CapSpeed()
		return i
	}
	return -1
}

// Serve re-centers the ball at (cx, cy) and launches it at speed with an
// angle of (0.25..0.75)*pi/3 off the serve axis. Both signs are drawn
// independently. With vertical set the serve axis is y instead of x.
func (r *Resolver) Serve(b *Ball, cx, cy, speed float64, vertical bool) {
	b.Center(cx, cy)

	angle := (0.25 + 0.5*r.float()) * math.Pi / 3
	along := speed * math.Cos(angle)
	across := speed * math.Sin(angle)
	if r.coin() {
		along = -along
	}
	if r.coin() {
		across = -across
	}
	along = atLeast(along, MinServeAxisSpeed)
	across = atLeast(across, MinServeAxisSpeed)

	if vertical {
		b.SpeedX, b.SpeedY = across, along
	} else {
		b.SpeedX, b.SpeedY = along, across
	}
	b.CapSpeed()
}

// atLeast raises |v| to min, keeping the sign
func atLeast(v, min float64) float64 {
	if math.Abs(v) >= min {
		return v
	}
	return sign(v) * min
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
