package ledger

// Participant hash fields and shared hash fields. Values are stored as
// strings because the room backend (Redis in production, player/room
// custom properties in the original client) is string-typed.
const (
	FieldName      = "name"
	FieldBalance   = "bal"
	FieldBank      = "bank"
	FieldJailCards = "jailcards"

	SharedPool        = "pool"
	SharedPoolVersion = "poolver"
	SharedAnchor      = "anchor"
	SharedDenom       = "denom"
)

// Store is the session-shared state owned by the room backend. The roster
// preserves join order. Reading an unset field yields "" with a nil error;
// participant existence is signalled by roster membership.
//
// Implementations: cache.SessionStore (Redis) and MemoryStore.
type Store interface {
	Roster() ([]string, error)
	AddToRoster(id string) error
	RemoveFromRoster(id string) error

	GetParticipant(id, field string) (string, error)
	SetParticipant(id, field, value string) error
	// ClearParticipant drops all fields for id. Roster removal is separate.
	ClearParticipant(id string) error

	GetShared(field string) (string, error)
	SetShared(field, value string) error
}

// Authority reports whether this process may perform canonical mutations.
// The room collaborator owns the answer; the ledger only checks it.
type Authority interface {
	IsAuthority() bool
}

// LocalAuthority is the server-side answer: the backend process is the
// single writer for every session it hosts.
type LocalAuthority struct{}

func (LocalAuthority) IsAuthority() bool { return true }
