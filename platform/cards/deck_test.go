package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsReproducibleUnderSeed(t *testing.T) {
	d1 := NewDeck(DeckChance, ChanceCards(), 42)
	d2 := NewDeck(DeckChance, ChanceCards(), 42)

	for i := 0; i < len(ChanceCards()); i++ {
		c1, err := d1.Draw()
		require.NoError(t, err)
		c2, err := d2.Draw()
		require.NoError(t, err)
		assert.Equal(t, c1.Template, c2.Template)
	}
}

func TestNoRepeatsBeforeExhaustion(t *testing.T) {
	cardsList := CommunityCards()
	d := NewDeck(DeckCommunity, cardsList, 7)

	seen := make(map[string]bool)
	for i := 0; i < len(cardsList); i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		assert.False(t, seen[c.Template], "repeated %q before exhaustion", c.Template)
		seen[c.Template] = true
	}
	assert.Len(t, seen, len(cardsList))
}

func TestReshuffleOnExhaustion(t *testing.T) {
	cardsList := ChanceCards()
	d := NewDeck(DeckChance, cardsList, 3)

	for i := 0; i < len(cardsList); i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, d.Remaining())

	// The next draw reshuffles implicitly.
	_, err := d.Draw()
	require.NoError(t, err)
	assert.True(t, d.Remaining() > 0)
}

func TestGetOutOfJailLeavesCycleUntilReturned(t *testing.T) {
	cardsList := ChanceCards()
	d := NewDeck(DeckChance, cardsList, 11)

	// Draw through until the get-out-of-jail card shows up.
	found := false
	for i := 0; i < len(cardsList); i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		if c.Kind == KindGetOutOfJail {
			found = true
			break
		}
	}
	require.True(t, found)
	assert.Equal(t, 1, d.Held())

	// Two more full cycles: it must not reappear.
	for i := 0; i < 2*len(cardsList); i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		assert.NotEqual(t, KindGetOutOfJail, c.Kind)
	}

	require.NoError(t, d.Return())
	assert.Equal(t, 0, d.Held())

	// Back in circulation: it shows up again within a bounded number of
	// draws (the returned card sits at the bottom of the current cycle).
	found = false
	for i := 0; i < 2*len(cardsList); i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		if c.Kind == KindGetOutOfJail {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestReturnWithoutHeldCard(t *testing.T) {
	d := NewDeck(DeckChance, ChanceCards(), 1)
	assert.Equal(t, ErrNothingHeld, d.Return())
}

func TestDrawFromDeckWithOnlyHeldCards(t *testing.T) {
	only := []Card{{Template: "Get out of Jail free", Kind: KindGetOutOfJail}}
	d := NewDeck("tiny", only, 5)

	_, err := d.Draw()
	require.NoError(t, err)

	_, err = d.Draw()
	assert.Equal(t, ErrEmptyDeck, err)
}
