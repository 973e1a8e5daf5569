package game

const (
	BricksPerSide  = 5
	BrickLength    = 40
	BrickThickness = 12
	BrickGap       = 8
	BrickInset     = 60 // Distance between a goal line and its row of bricks
)

// Brick is a static obstacle guarding one player's side in four-player matches.
// Breaking it gives a point to every player except its owner.
type Brick struct {
	X, Y   float64
	W, H   float64
	Active bool
	Owner  int
}

// layoutBricks puts one centered row of bricks in front of every paddle.
func layoutBricks(width, height float64, paddles []Paddle) []Brick {
	bricks := make([]Brick, 0, len(paddles)*BricksPerSide)
	span := float64(BricksPerSide*BrickLength + (BricksPerSide-1)*BrickGap)

	for _, p := range paddles {
		var start float64
		if p.Side.Vertical() {
			start = (height - span) / 2
		} else {
			start = (width - span) / 2
		}

		for i := 0; i < BricksPerSide; i++ {
			along := start + float64(i)*(BrickLength+BrickGap)
			b := Brick{Active: true, Owner: p.Slot}
			switch p.Side {
			case SideLeft:
				b.X, b.Y, b.W, b.H = BrickInset, along, BrickThickness, BrickLength
			case SideRight:
				b.X, b.Y, b.W, b.H = width-BrickInset-BrickThickness, along, BrickThickness, BrickLength
			case SideTop:
				b.X, b.Y, b.W, b.H = along, BrickInset, BrickLength, BrickThickness
			case SideBottom:
				b.X, b.Y, b.W, b.H = along, height-BrickInset-BrickThickness, BrickLength, BrickThickness
			}
			bricks = append(bricks, b)
		}
	}

	return bricks
}

// ActiveBricks counts bricks still standing.
func ActiveBricks(bricks []Brick) int {
	n := 0
	for _, b := range bricks {
		if b.Active {
			n++
		}
	}
	return n
}
