package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthority bool

func (a stubAuthority) IsAuthority() bool { return bool(a) }

// newTestLedger seeds a session with a bank and two players.
func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	l := New(store, stubAuthority(true))

	for _, id := range []string{"bank", "p1", "p2"} {
		require.NoError(t, store.AddToRoster(id))
	}
	require.NoError(t, store.SetParticipant("bank", FieldBank, "true"))
	require.NoError(t, l.SetBalance("bank", 0))
	require.NoError(t, l.SetBalance("p1", 1500))
	require.NoError(t, l.SetBalance("p2", 1500))
	return l, store
}

func totalMoney(t *testing.T, l *Ledger, ids ...string) int64 {
	t.Helper()
	var sum int64
	for _, id := range ids {
		bal, err := l.Balance(id)
		require.NoError(t, err)
		sum += bal
	}
	pool, err := l.Pool()
	require.NoError(t, err)
	return sum + pool
}

func TestCommissionRounding(t *testing.T) {
	// Pinned: round half away from zero at rate 0.007.
	assert.Equal(t, int64(7), Commission(1000))
	assert.Equal(t, int64(2), Commission(300))  // 2.1
	assert.Equal(t, int64(1), Commission(100))  // 0.7
	assert.Equal(t, int64(4), Commission(500))  // 3.5
	assert.Equal(t, int64(0), Commission(71))   // 0.497
	assert.Equal(t, int64(70), Commission(10000))
}

func TestApplyTransferSplitsExactly(t *testing.T) {
	l, _ := newTestLedger(t)

	res, err := l.ApplyTransfer("p1", ToParticipant("p2"), 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), res.Gross)
	assert.Equal(t, int64(7), res.Commission)
	assert.Equal(t, int64(993), res.Net)
	assert.Equal(t, res.Gross, res.Net+res.Commission)

	p1, _ := l.Balance("p1")
	p2, _ := l.Balance("p2")
	pool, _ := l.Pool()
	assert.Equal(t, int64(500), p1)
	assert.Equal(t, int64(2493), p2)
	assert.Equal(t, int64(7), pool)
}

func TestApplyTransferConservesMoney(t *testing.T) {
	l, _ := newTestLedger(t)
	before := totalMoney(t, l, "bank", "p1", "p2")

	_, err := l.ApplyTransfer("p1", ToParticipant("p2"), 700)
	require.NoError(t, err)
	_, err = l.ApplyTransfer("p2", ToParticipant("bank"), 450)
	require.NoError(t, err)
	_, err = l.ApplyTransfer("p2", ToPool(), 300)
	require.NoError(t, err)
	_, err = l.ApplyTransfer("bank", ToParticipant("p1"), 5000)
	require.NoError(t, err)

	assert.Equal(t, before, totalMoney(t, l, "bank", "p1", "p2"))
}

func TestApplyTransferToPoolCreditsGross(t *testing.T) {
	l, _ := newTestLedger(t)

	res, err := l.ApplyTransfer("p1", ToPool(), 300)
	require.NoError(t, err)

	pool, _ := l.Pool()
	// Net and commission both land in the pool.
	assert.Equal(t, int64(300), pool)
	assert.Equal(t, int64(2), res.Commission)
	assert.Equal(t, int64(298), res.Net)

	p1, _ := l.Balance("p1")
	assert.Equal(t, int64(1200), p1)
}

func TestApplyTransferRejectsInvalidAmount(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.ApplyTransfer("p1", ToParticipant("p2"), 0)
	assert.Equal(t, ErrInvalidAmount, err)
	_, err = l.ApplyTransfer("p1", ToParticipant("p2"), -50)
	assert.Equal(t, ErrInvalidAmount, err)

	p1, _ := l.Balance("p1")
	assert.Equal(t, int64(1500), p1)
}

func TestApplyTransferRejectsSelfTransfer(t *testing.T) {
	l, _ := newTestLedger(t)
	before := totalMoney(t, l, "bank", "p1", "p2")

	_, err := l.ApplyTransfer("p1", ToParticipant("p1"), 100)
	assert.Equal(t, ErrInvalidAmount, err)

	p1, _ := l.Balance("p1")
	pool, _ := l.Pool()
	assert.Equal(t, int64(1500), p1)
	assert.Equal(t, int64(0), pool)
	assert.Equal(t, before, totalMoney(t, l, "bank", "p1", "p2"))
}

func TestApplyTransferRejectsOverdraftForNonBank(t *testing.T) {
	l, _ := newTestLedger(t)
	before := totalMoney(t, l, "bank", "p1", "p2")

	_, err := l.ApplyTransfer("p1", ToParticipant("p2"), 1501)
	assert.Equal(t, ErrInsufficientFunds, err)

	// No mutation on rejection.
	p1, _ := l.Balance("p1")
	p2, _ := l.Balance("p2")
	assert.Equal(t, int64(1500), p1)
	assert.Equal(t, int64(1500), p2)
	assert.Equal(t, before, totalMoney(t, l, "bank", "p1", "p2"))
}

func TestBankMayOverdraw(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.SetBalance("bank", -500))
	require.NoError(t, l.SetBalance("p1", 100))

	res, err := l.ApplyTransfer("bank", ToParticipant("p1"), 300)
	require.NoError(t, err)

	bank, _ := l.Balance("bank")
	p1, _ := l.Balance("p1")
	pool, _ := l.Pool()
	assert.Equal(t, int64(-800), bank)
	assert.Equal(t, int64(398), p1) // 100 + (300 - 2)
	assert.Equal(t, int64(2), pool)
	assert.Equal(t, int64(2), res.Commission)
}

func TestApplyTransferUnknownParticipants(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.ApplyTransfer("ghost", ToParticipant("p2"), 100)
	assert.Equal(t, ErrUnknownParticipant, err)

	_, err = l.ApplyTransfer("p1", ToParticipant("ghost"), 100)
	assert.Equal(t, ErrUnknownParticipant, err)

	// Source untouched after the destination lookup failed.
	p1, _ := l.Balance("p1")
	assert.Equal(t, int64(1500), p1)
}

func TestPoolOperations(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.AddToPool(250))
	pool, _ := l.Pool()
	assert.Equal(t, int64(250), pool)

	assert.Equal(t, ErrInvalidAmount, l.AddToPool(-1))

	amount, err := l.WithdrawPool()
	require.NoError(t, err)
	assert.Equal(t, int64(250), amount)

	pool, _ = l.Pool()
	assert.Equal(t, int64(0), pool)
}

func TestPoolVersionIsMonotonic(t *testing.T) {
	l, _ := newTestLedger(t)

	v0, _ := l.PoolVersion()
	require.NoError(t, l.AddToPool(10))
	v1, _ := l.PoolVersion()
	_, err := l.ApplyTransfer("p1", ToParticipant("p2"), 100)
	require.NoError(t, err)
	v2, _ := l.PoolVersion()
	_, err = l.WithdrawPool()
	require.NoError(t, err)
	v3, _ := l.PoolVersion()

	assert.True(t, v0 < v1 && v1 < v2 && v2 < v3)
}

func TestNonAuthorityIsRejected(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.AddToRoster("p1"))
	require.NoError(t, store.SetParticipant("p1", FieldBalance, "1500"))

	l := New(store, stubAuthority(false))

	_, err := l.ApplyTransfer("p1", ToPool(), 100)
	assert.Equal(t, ErrNotAuthority, err)
	assert.Equal(t, ErrNotAuthority, l.AddToPool(10))
	_, err = l.WithdrawPool()
	assert.Equal(t, ErrNotAuthority, err)
	assert.Equal(t, ErrNotAuthority, l.SetBalance("p1", 0))

	bal, err := l.Balance("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), bal)
}
