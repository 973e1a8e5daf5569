package game

// AnimPhase is the stage of a paddle bump.
type AnimPhase int

const (
	AnimNone AnimPhase = iota
	AnimGrow
	AnimShrink
	AnimReturn
)

const (
	animGrowDuration   = 0.06
	animShrinkDuration = 0.08
	animReturnDuration = 0.10
	animPeakScale      = 1.25
	animTroughScale    = 0.9
)

// PaddleAnimation is the squash-and-stretch bump played after a paddle hit.
// It is cosmetic: collisions always use the unscaled paddle rectangle.
type PaddleAnimation struct {
	Phase   AnimPhase
	Scale   float64
	elapsed float64
}

// Trigger restarts the bump from its first phase.
func (a *PaddleAnimation) Trigger() {
	a.Phase = AnimGrow
	a.Scale = 1
	a.elapsed = 0
}

// Factor returns the scale to draw the paddle with.
func (a PaddleAnimation) Factor() float64 {
	if a.Phase == AnimNone {
		return 1
	}
	return a.Scale
}

// Advance moves the animation forward by dt seconds.
func (a *PaddleAnimation) Advance(dt float64) {
	if a.Phase == AnimNone {
		return
	}
	a.elapsed += dt

	for a.Phase != AnimNone {
		var duration, from, to float64
		switch a.Phase {
		case AnimGrow:
			duration, from, to = animGrowDuration, 1, animPeakScale
		case AnimShrink:
			duration, from, to = animShrinkDuration, animPeakScale, animTroughScale
		case AnimReturn:
			duration, from, to = animReturnDuration, animTroughScale, 1
		}

		if a.elapsed < duration {
			a.Scale = from + (to-from)*(a.elapsed/duration)
			return
		}

		a.elapsed -= duration
		a.Scale = to
		if a.Phase == AnimReturn {
			a.Phase = AnimNone
			a.elapsed = 0
			return
		}
		a.Phase++
	}
}
