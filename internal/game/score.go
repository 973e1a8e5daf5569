package game

const DefaultWinningScore = 3

// Score holds one counter per player slot.
type Score struct {
	Points       []int
	WinningScore int
}

func NewScore(players, winningScore int) Score {
	return Score{Points: make([]int, players), WinningScore: winningScore}
}

// Award gives one point to slot
func (s *Score) Award(slot int) {
	if slot >= 0 && slot < len(s.Points) {
		s.Points[slot]++
	}
}

// AwardAllExcept gives one point to every slot but the given one
func (s *Score) AwardAllExcept(slot int) {
	for i := range s.Points {
		if i != slot {
			s.Points[i]++
		}
	}
}

// Reached reports whether any player has reached the winning score
func (s Score) Reached() bool {
	for _, p := range s.Points {
		if p >= s.WinningScore {
			return true
		}
	}
	return false
}

// Leader returns the slot with the most points. tie is true when that
// maximum is shared, in which case slot is the lowest tied slot.
func (s Score) Leader() (slot int, tie bool) {
	slot = -1
	best := -1
	for i, p := range s.Points {
		switch {
		case p > best:
			best, slot, tie = p, i, false
		case p == best:
			tie = true
		}
	}
	return slot, tie
}

// BestExcept returns the highest score among all slots but the given one.
func (s Score) BestExcept(slot int) int {
	best := 0
	for i, p := range s.Points {
		if i != slot && p > best {
			best = p
		}
	}
	return best
}

func (s Score) clone() Score {
	points := make([]int, len(s.Points))
	copy(points, s.Points)
	return Score{Points: points, WinningScore: s.WinningScore}
}
