package session

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/apazos/monopoly-ledger/platform/cards"
	"github.com/apazos/monopoly-ledger/platform/economy"
	"github.com/apazos/monopoly-ledger/platform/ledger"
	"github.com/sirupsen/logrus"
)

// Notifier receives the changed key set after every committed mutation.
// Keys: "roster", "bank", "pool", "bal:<participant id>".
type Notifier func(keys ...string)

// Participant is the UI-facing view of one roster entry.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	Bank      bool   `json:"bank"`
	JailCards int    `json:"jail_cards"`
}

// Service is the authority for one session: it owns the ledger, the bank
// role and the card decks, and serializes every command so no two
// read-modify-write sequences interleave.
type Service struct {
	mu     sync.Mutex
	id     string
	store  ledger.Store
	auth   ledger.Authority
	scaler economy.Scaler
	ledger *ledger.Ledger
	bank   *ledger.Assigner
	cards  *cards.Engine
	notify Notifier
	log    *logrus.Entry
}

// New builds the service over the shared store. A config already persisted
// in the store wins over cfg, so rejoining processes agree on the economy;
// otherwise cfg is validated and persisted.
func New(id string, store ledger.Store, auth ledger.Authority, cfg economy.Config, seed int64) (*Service, error) {
	cfg, err := loadOrInitConfig(store, cfg)
	if err != nil {
		return nil, err
	}
	scaler, err := economy.NewScaler(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		id:     id,
		store:  store,
		auth:   auth,
		scaler: scaler,
		ledger: ledger.New(store, auth),
		bank:   ledger.NewAssigner(store, auth),
		cards:  cards.NewEngine(scaler, seed),
		notify: func(...string) {},
		log:    logrus.WithField("session", id),
	}, nil
}

func loadOrInitConfig(store ledger.Store, cfg economy.Config) (economy.Config, error) {
	anchor, err := store.GetShared(ledger.SharedAnchor)
	if err != nil {
		return cfg, err
	}
	denom, err := store.GetShared(ledger.SharedDenom)
	if err != nil {
		return cfg, err
	}
	if anchor != "" && denom != "" {
		a, err := strconv.ParseInt(anchor, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("session: corrupt anchor value: %w", err)
		}
		d, err := strconv.ParseInt(denom, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("session: corrupt denomination: %w", err)
		}
		return economy.Config{AnchorValue: a, MinDenomination: d}, nil
	}
	if err := store.SetShared(ledger.SharedAnchor, strconv.FormatInt(cfg.AnchorValue, 10)); err != nil {
		return cfg, err
	}
	if err := store.SetShared(ledger.SharedDenom, strconv.FormatInt(cfg.MinDenomination, 10)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s *Service) ID() string { return s.id }

// SetNotifier installs the change-notification hook. Call before wiring
// the service into the transport layer.
func (s *Service) SetNotifier(n Notifier) {
	if n != nil {
		s.notify = n
	}
}

func (s *Service) Scaler() economy.Scaler { return s.scaler }

// ScaledValue resolves a reference amount into session currency.
func (s *Service) ScaledValue(ref int64) int64 {
	return s.scaler.ScaleInt(ref)
}

// Join adds a participant with the scaled initial balance and ensures a
// bank exists afterwards.
func (s *Service) Join(id, name string) (Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthority() {
		return Participant{}, ledger.ErrNotAuthority
	}

	// A replayed join (reconnect, double-click) must not reset live state.
	roster, err := s.store.Roster()
	if err != nil {
		return Participant{}, err
	}
	for _, existing := range roster {
		if existing == id {
			return s.participant(id)
		}
	}

	if err := s.store.AddToRoster(id); err != nil {
		return Participant{}, err
	}
	if err := s.store.SetParticipant(id, ledger.FieldName, name); err != nil {
		return Participant{}, err
	}
	if err := s.ledger.SetBalance(id, s.scaler.InitialBalance()); err != nil {
		return Participant{}, err
	}
	if err := s.store.SetParticipant(id, ledger.FieldJailCards, "0"); err != nil {
		return Participant{}, err
	}

	bankID, err := s.bank.Elect()
	if err != nil {
		return Participant{}, err
	}

	s.log.WithFields(logrus.Fields{"participant": id, "name": name}).Info("participant joined")
	s.notify("roster", "bank", "bal:"+id)

	return Participant{
		ID:      id,
		Name:    name,
		Balance: s.scaler.InitialBalance(),
		Bank:    bankID == id,
	}, nil
}

// Leave removes a participant. When the bank leaves, the role is handed
// over before the record is discarded so no gap is observable.
func (s *Service) Leave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthority() {
		return ledger.ErrNotAuthority
	}

	if _, err := s.bank.ReassignOnLeave(id); err != nil && err != ledger.ErrNoBankAssigned {
		return err
	}
	if err := s.store.RemoveFromRoster(id); err != nil {
		return err
	}
	if err := s.store.ClearParticipant(id); err != nil {
		return err
	}

	s.log.WithField("participant", id).Info("participant left")
	s.notify("roster", "bank")
	return nil
}

// RequestTransfer is the single player-initiated path by which balances
// change.
func (s *Service) RequestTransfer(sourceID string, dest ledger.Destination, gross int64) (ledger.TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.ledger.ApplyTransfer(sourceID, dest, gross)
	if err != nil {
		return result, err
	}

	keys := []string{"pool", "bal:" + sourceID}
	if !dest.IsPool() {
		keys = append(keys, "bal:"+dest.ParticipantID())
	}
	s.notify(keys...)
	return result, nil
}

func (s *Service) QueryBalance(id string) (int64, error) {
	return s.ledger.Balance(id)
}

func (s *Service) QueryPool() (int64, error) {
	return s.ledger.Pool()
}

func (s *Service) PoolVersion() (int64, error) {
	return s.ledger.PoolVersion()
}

// AddToPool credits the pool directly. Authority only.
func (s *Service) AddToPool(amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.AddToPool(amount); err != nil {
		return err
	}
	s.notify("pool")
	return nil
}

// WithdrawPool zeroes the pool and returns what it held. Authority only.
func (s *Service) WithdrawPool() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := s.ledger.WithdrawPool()
	if err != nil {
		return 0, err
	}
	s.notify("pool")
	return amount, nil
}

// Bank returns the current bank participant id, "" when none.
func (s *Service) Bank() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Bank()
}

// Roster returns every participant in join order.
func (s *Service) Roster() ([]Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.store.Roster()
	if err != nil {
		return nil, err
	}
	out := make([]Participant, 0, len(ids))
	for _, id := range ids {
		p, err := s.participant(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) participant(id string) (Participant, error) {
	name, err := s.store.GetParticipant(id, ledger.FieldName)
	if err != nil {
		return Participant{}, err
	}
	bal, err := s.ledger.Balance(id)
	if err != nil {
		return Participant{}, err
	}
	bank, err := s.store.GetParticipant(id, ledger.FieldBank)
	if err != nil {
		return Participant{}, err
	}
	jail, err := s.jailCards(id)
	if err != nil {
		return Participant{}, err
	}
	return Participant{
		ID:        id,
		Name:      name,
		Balance:   bal,
		Bank:      bank == "true",
		JailCards: jail,
	}, nil
}

// DrawCard draws from the named deck and applies the money-class effects:
// money adjusts the drawer, collect-from-all settles against every other
// participant, get-out-of-jail grants a held token. Movement, jail and
// repair effects are returned unapplied; the board collaborator owns
// position and building state.
func (s *Service) DrawCard(deckName, drawerID string) (cards.Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthority() {
		return cards.Effect{}, ledger.ErrNotAuthority
	}

	drawerBal, err := s.ledger.Balance(drawerID)
	if err != nil {
		return cards.Effect{}, err
	}

	effect, err := s.cards.Draw(deckName)
	if err != nil {
		return cards.Effect{}, err
	}

	switch effect.Kind {
	case cards.KindMoney:
		delta := effect.Amounts[0]
		if err := s.ledger.SetBalance(drawerID, drawerBal+delta); err != nil {
			return effect, err
		}
		s.notify("bal:" + drawerID)

	case cards.KindCollectFromAll:
		if err := s.collectFromAll(drawerID, drawerBal, effect.Amounts[0]); err != nil {
			return effect, err
		}

	case cards.KindGetOutOfJail:
		jail, err := s.jailCards(drawerID)
		if err != nil {
			return effect, err
		}
		if err := s.setJailCards(drawerID, jail+1); err != nil {
			return effect, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"participant": drawerID,
		"deck":        deckName,
		"kind":        effect.Kind,
	}).Info("card drawn")
	return effect, nil
}

// collectFromAll moves amount between the drawer and every other
// participant. Positive amount: each pays the drawer; negative: the drawer
// pays each. No commission; totals are conserved exactly.
func (s *Service) collectFromAll(drawerID string, drawerBal, amount int64) error {
	ids, err := s.store.Roster()
	if err != nil {
		return err
	}

	keys := []string{"bal:" + drawerID}
	var collected int64
	for _, id := range ids {
		if id == drawerID {
			continue
		}
		bal, err := s.ledger.Balance(id)
		if err != nil {
			return err
		}
		if err := s.ledger.SetBalance(id, bal-amount); err != nil {
			return err
		}
		collected += amount
		keys = append(keys, "bal:"+id)
	}
	if err := s.ledger.SetBalance(drawerID, drawerBal+collected); err != nil {
		return err
	}
	s.notify(keys...)
	return nil
}

// ReturnJailCard spends one held get-out-of-jail token and puts the card
// back into circulation.
func (s *Service) ReturnJailCard(deckName, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthority() {
		return ledger.ErrNotAuthority
	}

	jail, err := s.jailCards(participantID)
	if err != nil {
		return err
	}
	if jail <= 0 {
		return cards.ErrNothingHeld
	}
	if err := s.cards.Return(deckName); err != nil {
		return err
	}
	return s.setJailCards(participantID, jail-1)
}

func (s *Service) jailCards(id string) (int, error) {
	raw, err := s.store.GetParticipant(id, ledger.FieldJailCards)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Service) setJailCards(id string, n int) error {
	return s.store.SetParticipant(id, ledger.FieldJailCards, strconv.Itoa(n))
}
