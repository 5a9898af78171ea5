package games

// FixedRandom replays preset Intn results and leaves shuffles as a no-op,
// so tests control every draw.
type FixedRandom struct {
	Ints []int
	next int
}

func (r *FixedRandom) Intn(n int) int {
	if r.next >= len(r.Ints) {
		return 0
	}
	v := r.Ints[r.next] % n
	r.next++
	return v
}

func (r *FixedRandom) Shuffle(n int, swap func(i, j int)) {}

// StackedRandom arranges a fresh deck so Draws come off the top in order.
// It only works on decks built by NewDeck.
type StackedRandom struct {
	FixedRandom
	Draws []Card
}

func (r *StackedRandom) Shuffle(n int, swap func(i, j int)) {
	sim := NewDeck()
	if n != len(sim) {
		return
	}
	for k, card := range r.Draws {
		target := n - 1 - k
		for idx := range sim {
			if sim[idx] == card {
				swap(idx, target)
				sim[idx], sim[target] = sim[target], sim[idx]
				break
			}
		}
	}
}
