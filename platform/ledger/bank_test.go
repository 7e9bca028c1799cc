package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bankFlags(t *testing.T, store *MemoryStore) []string {
	t.Helper()
	roster, err := store.Roster()
	require.NoError(t, err)
	var banks []string
	for _, id := range roster {
		flag, err := store.GetParticipant(id, FieldBank)
		require.NoError(t, err)
		if flag == "true" {
			banks = append(banks, id)
		}
	}
	return banks
}

func TestElectEmptyRoster(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))

	_, err := a.Elect()
	assert.Equal(t, ErrNoBankAssigned, err)
}

func TestElectPicksFirstInJoinOrder(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))
	require.NoError(t, store.AddToRoster("first"))
	require.NoError(t, store.AddToRoster("second"))

	bank, err := a.Elect()
	require.NoError(t, err)
	assert.Equal(t, "first", bank)
	assert.Equal(t, []string{"first"}, bankFlags(t, store))
}

func TestElectKeepsExistingBank(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))
	require.NoError(t, store.AddToRoster("first"))
	require.NoError(t, store.AddToRoster("second"))
	require.NoError(t, store.SetParticipant("second", FieldBank, "true"))

	bank, err := a.Elect()
	require.NoError(t, err)
	assert.Equal(t, "second", bank)
	assert.Equal(t, []string{"second"}, bankFlags(t, store))
}

func TestReassignOnLeaveOfNonBank(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))
	require.NoError(t, store.AddToRoster("first"))
	require.NoError(t, store.AddToRoster("second"))
	_, err := a.Elect()
	require.NoError(t, err)

	bank, err := a.ReassignOnLeave("second")
	require.NoError(t, err)
	assert.Equal(t, "first", bank)
}

func TestReassignOnLeaveOfBank(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))
	require.NoError(t, store.AddToRoster("first"))
	require.NoError(t, store.AddToRoster("second"))
	require.NoError(t, store.AddToRoster("third"))
	_, err := a.Elect()
	require.NoError(t, err)

	bank, err := a.ReassignOnLeave("first")
	require.NoError(t, err)
	assert.Equal(t, "second", bank)
	assert.Equal(t, []string{"second"}, bankFlags(t, store))
}

func TestReassignOnLeaveOfLastParticipant(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))
	require.NoError(t, store.AddToRoster("only"))
	_, err := a.Elect()
	require.NoError(t, err)

	_, err = a.ReassignOnLeave("only")
	assert.Equal(t, ErrNoBankAssigned, err)
	assert.Empty(t, bankFlags(t, store))
}

func TestExactlyOneBankAcrossMembershipChurn(t *testing.T) {
	store := NewMemoryStore()
	a := NewAssigner(store, stubAuthority(true))

	join := func(id string) {
		require.NoError(t, store.AddToRoster(id))
		_, err := a.Elect()
		require.NoError(t, err)
	}
	leave := func(id string) {
		if _, err := a.ReassignOnLeave(id); err != nil {
			require.Equal(t, ErrNoBankAssigned, err)
		}
		require.NoError(t, store.RemoveFromRoster(id))
		require.NoError(t, store.ClearParticipant(id))
	}

	join("a")
	join("b")
	join("c")
	leave("a") // bank leaves
	join("d")
	leave("c")
	leave("b") // bank leaves again

	assert.Equal(t, []string{"d"}, bankFlags(t, store))
}

func TestElectRequiresAuthority(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.AddToRoster("first"))
	a := NewAssigner(store, stubAuthority(false))

	_, err := a.Elect()
	assert.Equal(t, ErrNotAuthority, err)
	_, err = a.ReassignOnLeave("first")
	assert.Equal(t, ErrNotAuthority, err)
}
