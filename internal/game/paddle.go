package game

const (
	DefaultPaddleWidth  = 10  // Thickness, across the movement axis
	DefaultPaddleHeight = 100 // Length, along the movement axis
	DefaultPaddleSpeed  = 400 // Units per second
	DefaultPaddleOffset = 10  // Distance between a paddle and its goal line
	DefaultPaddleMargin = 5   // Gap kept between a paddle and the playfield ends
)

// Side is the goal line a paddle defends.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return "unknown"
}

// Vertical reports whether paddles on this side move along the y axis.
func (s Side) Vertical() bool {
	return s == SideLeft || s == SideRight
}

// Controls are the per-frame movement flags of one paddle. For horizontal
// paddles Up moves left and Down moves right.
type Controls struct {
	Up   bool
	Down bool
}

// Paddle is an axis aligned rectangle. X, Y is the top-left corner.
type Paddle struct {
	Side   Side
	Slot   int
	X, Y   float64
	Width  float64
	Height float64
	Speed  float64
	Anim   PaddleAnimation
}

// Pos returns the coordinate along the movement axis.
func (p *Paddle) Pos() float64 {
	if p.Side.Vertical() {
		return p.Y
	}
	return p.X
}

func (p *Paddle) setPos(v float64) {
	if p.Side.Vertical() {
		p.Y = v
	} else {
		p.X = v
	}
}

// Extent returns the paddle length along its movement axis.
func (p *Paddle) Extent() float64 {
	if p.Side.Vertical() {
		return p.Height
	}
	return p.Width
}

// Move applies the control flags for dt seconds and clamps the result to [lo, hi].
func (p *Paddle) Move(c Controls, dt, lo, hi float64) {
	pos := p.Pos()
	if c.Up && !c.Down {
		pos -= p.Speed * dt
	} else if c.Down && !c.Up {
		pos += p.Speed * dt
	}
	p.setPos(clamp(pos, lo, hi))
}
