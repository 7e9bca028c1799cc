package cards

import (
	"errors"
	"math/rand"
	"sync"
)

var (
	// ErrEmptyDeck means no drawable cards remain even after a reshuffle
	// (every card held out). Never surfaces through normal play.
	ErrEmptyDeck = errors.New("cards: deck has no drawable cards")
	// ErrNothingHeld rejects returning a get-out-of-jail card when none
	// has been drawn.
	ErrNothingHeld = errors.New("cards: no get-out-of-jail card is held")
)

// Deck draws without replacement from a shuffled permutation of its cards.
// Get-out-of-jail cards leave the cycle when drawn and only rejoin it via
// Return. Deck serializes its own cursor so two concurrent draws can never
// hand out the same card.
type Deck struct {
	mu    sync.Mutex
	name  string
	cards []Card
	queue []int // indices into cards, front is next draw
	held  int   // get-out-of-jail cards out of circulation
	rng   *rand.Rand
}

// NewDeck builds a shuffled deck. The seed pins the permutation sequence,
// which is what makes draws reproducible in tests.
func NewDeck(name string, cards []Card, seed int64) *Deck {
	d := &Deck{
		name:  name,
		cards: cards,
		rng:   rand.New(rand.NewSource(seed)),
	}
	d.shuffle()
	return d
}

func (d *Deck) Name() string { return d.name }

// Shuffle rebuilds the draw order from every card still in circulation.
func (d *Deck) Shuffle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shuffle()
}

func (d *Deck) shuffle() {
	queue := make([]int, 0, len(d.cards))
	skipped := 0
	for i, c := range d.cards {
		if c.Kind == KindGetOutOfJail && skipped < d.held {
			skipped++
			continue
		}
		queue = append(queue, i)
	}
	d.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	d.queue = queue
}

// Draw consumes the front card, reshuffling first if the deck is
// exhausted.
func (d *Deck) Draw() (Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		d.shuffle()
		if len(d.queue) == 0 {
			return Card{}, ErrEmptyDeck
		}
	}
	idx := d.queue[0]
	d.queue = d.queue[1:]

	card := d.cards[idx]
	if card.Kind == KindGetOutOfJail {
		d.held++
	}
	return card, nil
}

// Return puts one held get-out-of-jail card back at the bottom of the
// deck.
func (d *Deck) Return() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.held == 0 {
		return ErrNothingHeld
	}
	d.held--
	for i, c := range d.cards {
		if c.Kind == KindGetOutOfJail && !d.queued(i) {
			d.queue = append(d.queue, i)
			return nil
		}
	}
	return nil
}

func (d *Deck) queued(idx int) bool {
	for _, q := range d.queue {
		if q == idx {
			return true
		}
	}
	return false
}

// Remaining is the number of cards left before the next reshuffle.
func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Held is the number of get-out-of-jail cards out of circulation.
func (d *Deck) Held() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.held
}
