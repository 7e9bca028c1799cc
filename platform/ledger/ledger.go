package ledger

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CommissionRate is skimmed from every player transfer and routed to the
// shared pool. 0.7%, fixed.
var CommissionRate = decimal.RequireFromString("0.007")

// Commission is round(gross * 0.007), half away from zero.
func Commission(gross int64) int64 {
	return decimal.NewFromInt(gross).Mul(CommissionRate).Round(0).IntPart()
}

// Destination is either a participant or the shared pool.
type Destination struct {
	id   string
	pool bool
}

func ToParticipant(id string) Destination { return Destination{id: id} }
func ToPool() Destination                 { return Destination{pool: true} }

func (d Destination) IsPool() bool          { return d.pool }
func (d Destination) ParticipantID() string { return d.id }

func (d Destination) String() string {
	if d.pool {
		return "pool"
	}
	return d.id
}

// TransferResult reports what a committed transfer actually moved.
type TransferResult struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Gross       int64  `json:"gross"`
	Net         int64  `json:"net"`
	Commission  int64  `json:"commission"`
	PoolVersion int64  `json:"pool_version"`
}

// Ledger applies money movements against a session Store. Every operation
// takes the ledger mutex so balance checks and debits/credits commit as one
// unit; the read-then-later-write split the original client exhibited is
// exactly what this forbids.
type Ledger struct {
	mu    sync.Mutex
	store Store
	auth  Authority
	log   *logrus.Entry
}

func New(store Store, auth Authority) *Ledger {
	return &Ledger{
		store: store,
		auth:  auth,
		log:   logrus.WithField("component", "ledger"),
	}
}

// ApplyTransfer moves gross from sourceID to dest. The commission is
// skimmed off the credited amount and routed to the pool; the source is
// always debited the full gross. Only the bank may overdraw.
func (l *Ledger) ApplyTransfer(sourceID string, dest Destination, gross int64) (TransferResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auth.IsAuthority() {
		return TransferResult{}, ErrNotAuthority
	}
	if gross <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	// A self-transfer would credit the stale pre-debit balance back over
	// the debit, minting gross out of nothing.
	if !dest.IsPool() && dest.ParticipantID() == sourceID {
		return TransferResult{}, ErrInvalidAmount
	}

	srcBal, err := l.balance(sourceID)
	if err != nil {
		return TransferResult{}, err
	}

	isBank, err := l.isBank(sourceID)
	if err != nil {
		return TransferResult{}, err
	}
	if !isBank && srcBal < gross {
		return TransferResult{}, ErrInsufficientFunds
	}

	commission := Commission(gross)
	net := gross - commission

	var destBal int64
	if !dest.IsPool() {
		destBal, err = l.balance(dest.ParticipantID())
		if err != nil {
			return TransferResult{}, err
		}
	}
	pool, err := l.pool()
	if err != nil {
		return TransferResult{}, err
	}

	// Validation done; commit.
	if err := l.setBalance(sourceID, srcBal-gross); err != nil {
		return TransferResult{}, err
	}
	if dest.IsPool() {
		pool += net
	} else {
		if err := l.setBalance(dest.ParticipantID(), destBal+net); err != nil {
			return TransferResult{}, err
		}
	}
	pool += commission
	version, err := l.setPool(pool)
	if err != nil {
		return TransferResult{}, err
	}

	l.log.WithFields(logrus.Fields{
		"source":     sourceID,
		"dest":       dest.String(),
		"gross":      gross,
		"net":        net,
		"commission": commission,
	}).Info("transfer applied")

	return TransferResult{
		Source:      sourceID,
		Destination: dest.String(),
		Gross:       gross,
		Net:         net,
		Commission:  commission,
		PoolVersion: version,
	}, nil
}

// WithdrawPool zeroes the pool and returns the prior value. Authority only.
func (l *Ledger) WithdrawPool() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auth.IsAuthority() {
		return 0, ErrNotAuthority
	}
	amount, err := l.pool()
	if err != nil {
		return 0, err
	}
	if _, err := l.setPool(0); err != nil {
		return 0, err
	}
	l.log.WithField("amount", amount).Info("pool withdrawn")
	return amount, nil
}

// AddToPool credits the pool directly, without commission. Authority only.
func (l *Ledger) AddToPool(amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auth.IsAuthority() {
		return ErrNotAuthority
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	pool, err := l.pool()
	if err != nil {
		return err
	}
	_, err = l.setPool(pool + amount)
	return err
}

// SetBalance overwrites a balance outright. Used by session initialization
// and card-effect application; never by player transfers. Authority only.
func (l *Ledger) SetBalance(id string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auth.IsAuthority() {
		return ErrNotAuthority
	}
	return l.setBalance(id, amount)
}

func (l *Ledger) Balance(id string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(id)
}

func (l *Ledger) Pool() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool()
}

func (l *Ledger) PoolVersion() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sharedInt(SharedPoolVersion)
}

func (l *Ledger) IsBank(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isBank(id)
}

func (l *Ledger) balance(id string) (int64, error) {
	raw, err := l.store.GetParticipant(id, FieldBalance)
	if err != nil {
		return 0, fmt.Errorf("ledger: reading balance of %s: %w", id, err)
	}
	if raw == "" {
		return 0, ErrUnknownParticipant
	}
	bal, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ledger: corrupt balance for %s: %w", id, err)
	}
	return bal, nil
}

func (l *Ledger) setBalance(id string, amount int64) error {
	return l.store.SetParticipant(id, FieldBalance, strconv.FormatInt(amount, 10))
}

func (l *Ledger) isBank(id string) (bool, error) {
	raw, err := l.store.GetParticipant(id, FieldBank)
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

func (l *Ledger) pool() (int64, error) {
	return l.sharedInt(SharedPool)
}

func (l *Ledger) sharedInt(field string) (int64, error) {
	raw, err := l.store.GetShared(field)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// setPool writes the pool and bumps its version token, returning the new
// version. Callers hold l.mu.
func (l *Ledger) setPool(amount int64) (int64, error) {
	if err := l.store.SetShared(SharedPool, strconv.FormatInt(amount, 10)); err != nil {
		return 0, err
	}
	version, err := l.sharedInt(SharedPoolVersion)
	if err != nil {
		return 0, err
	}
	version++
	if err := l.store.SetShared(SharedPoolVersion, strconv.FormatInt(version, 10)); err != nil {
		return 0, err
	}
	return version, nil
}
