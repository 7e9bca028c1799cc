package ledger

import "github.com/sirupsen/logrus"

// Assigner maintains the bank role: exactly one participant holds it
// whenever the roster is non-empty and an authority exists. The session
// service serializes Elect/ReassignOnLeave with roster mutations; the
// assigner itself does not lock.
type Assigner struct {
	store Store
	auth  Authority
	log   *logrus.Entry
}

func NewAssigner(store Store, auth Authority) *Assigner {
	return &Assigner{
		store: store,
		auth:  auth,
		log:   logrus.WithField("component", "bank"),
	}
}

// Bank returns the current bank's id, or "" when none is assigned.
func (a *Assigner) Bank() (string, error) {
	roster, err := a.store.Roster()
	if err != nil {
		return "", err
	}
	for _, id := range roster {
		flag, err := a.store.GetParticipant(id, FieldBank)
		if err != nil {
			return "", err
		}
		if flag == "true" {
			return id, nil
		}
	}
	return "", nil
}

// Elect ensures a bank exists. An already-rostered bank is kept; otherwise
// the first participant in join order takes the role.
func (a *Assigner) Elect() (string, error) {
	if !a.auth.IsAuthority() {
		return "", ErrNotAuthority
	}

	current, err := a.Bank()
	if err != nil {
		return "", err
	}
	if current != "" {
		return current, nil
	}

	roster, err := a.store.Roster()
	if err != nil {
		return "", err
	}
	if len(roster) == 0 {
		return "", ErrNoBankAssigned
	}
	return a.assign(roster[0])
}

// ReassignOnLeave runs before leavingID's record is discarded, so outside
// observers never see a roster without a bank. Returns the bank after the
// handover, or ErrNoBankAssigned when leavingID was the last participant.
func (a *Assigner) ReassignOnLeave(leavingID string) (string, error) {
	if !a.auth.IsAuthority() {
		return "", ErrNotAuthority
	}

	current, err := a.Bank()
	if err != nil {
		return "", err
	}
	if current != leavingID {
		return current, nil
	}

	if err := a.store.SetParticipant(leavingID, FieldBank, "false"); err != nil {
		return "", err
	}

	roster, err := a.store.Roster()
	if err != nil {
		return "", err
	}
	for _, id := range roster {
		if id == leavingID {
			continue
		}
		return a.assign(id)
	}
	return "", ErrNoBankAssigned
}

func (a *Assigner) assign(id string) (string, error) {
	// Clear stale flags first so at most one is ever set.
	roster, err := a.store.Roster()
	if err != nil {
		return "", err
	}
	for _, other := range roster {
		if other == id {
			continue
		}
		flag, err := a.store.GetParticipant(other, FieldBank)
		if err != nil {
			return "", err
		}
		if flag == "true" {
			if err := a.store.SetParticipant(other, FieldBank, "false"); err != nil {
				return "", err
			}
		}
	}
	if err := a.store.SetParticipant(id, FieldBank, "true"); err != nil {
		return "", err
	}
	a.log.WithField("participant", id).Info("bank role assigned")
	return id, nil
}
