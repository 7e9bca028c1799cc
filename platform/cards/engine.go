package cards

import (
	"errors"
	"strconv"
	"strings"

	"github.com/apazos/monopoly-ledger/platform/economy"
)

var ErrUnknownDeck = errors.New("cards: unknown deck")

// Effect is a drawn card resolved against the session economy. Amounts are
// session currency, same order and sign convention as the card's reference
// amounts. The engine never touches balances; the session layer applies
// money-class effects and hands the rest to the board collaborator.
type Effect struct {
	Deck        string  `json:"deck"`
	Kind        Kind    `json:"kind"`
	Description string  `json:"description"`
	Amounts     []int64 `json:"amounts,omitempty"`
	Move        int     `json:"move,omitempty"`
}

// Engine owns the two session decks and renders draws through the scaler.
type Engine struct {
	scaler economy.Scaler
	decks  map[string]*Deck
}

// NewEngine builds shuffled chance and community decks. The seed pins both
// permutations for reproducible tests; derive it from a real entropy
// source in production.
func NewEngine(scaler economy.Scaler, seed int64) *Engine {
	return &Engine{
		scaler: scaler,
		decks: map[string]*Deck{
			DeckChance:    NewDeck(DeckChance, ChanceCards(), seed),
			DeckCommunity: NewDeck(DeckCommunity, CommunityCards(), seed+1),
		},
	}
}

// Draw takes the next card from the named deck and resolves it.
func (e *Engine) Draw(deckName string) (Effect, error) {
	deck, ok := e.decks[deckName]
	if !ok {
		return Effect{}, ErrUnknownDeck
	}
	card, err := deck.Draw()
	if err != nil {
		return Effect{}, err
	}
	return e.resolve(deckName, card), nil
}

// Return puts a held get-out-of-jail card back into the named deck.
func (e *Engine) Return(deckName string) error {
	deck, ok := e.decks[deckName]
	if !ok {
		return ErrUnknownDeck
	}
	return deck.Return()
}

// Deck exposes a deck for inspection.
func (e *Engine) Deck(deckName string) (*Deck, bool) {
	deck, ok := e.decks[deckName]
	return deck, ok
}

func (e *Engine) resolve(deckName string, card Card) Effect {
	scaled := make([]int64, len(card.Amounts))
	text := card.Template
	for i, ref := range card.Amounts {
		scaled[i] = e.scaler.ScaleInt(ref)
		abs := ref
		absScaled := scaled[i]
		if abs < 0 {
			abs = -abs
			absScaled = -absScaled
		}
		placeholder := "{" + strconv.FormatInt(abs, 10) + "}"
		text = strings.ReplaceAll(text, placeholder, strconv.FormatInt(absScaled, 10))
	}
	text = strings.ReplaceAll(text, "{SALARY}", strconv.FormatInt(e.scaler.Salary(), 10))

	effect := Effect{
		Deck:        deckName,
		Kind:        card.Kind,
		Description: text,
		Move:        card.Move,
	}
	if len(scaled) > 0 {
		effect.Amounts = scaled
	}
	return effect
}
