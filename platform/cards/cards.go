package cards

// Kind tags what a drawn card does. Effects are data, not callbacks: the
// session layer interprets them, the engine only renders them.
type Kind string

const (
	KindMoney          Kind = "money"
	KindMovement       Kind = "movement"
	KindJail           Kind = "jail"
	KindGetOutOfJail   Kind = "get-out-of-jail"
	KindRepair         Kind = "repair-fee"
	KindCollectFromAll Kind = "collect-from-all"
)

// Movement payloads. Non-negative values are absolute board positions.
const (
	MoveBack3           = -3
	MoveNearestRailroad = -101
	MoveNearestUtility  = -102
)

// Card is an immutable deck entry. Template amounts are written against
// the reference ruleset as {N} (or {SALARY}) and rendered through the
// session scaler at draw time.
//
// Amounts carry the signed reference values: positive means the drawer
// collects, negative means the drawer pays. Repair cards carry
// {per-house, per-hotel}. Collect-from-all carries the per-player amount,
// negative when the drawer pays each player instead.
type Card struct {
	Template string
	Kind     Kind
	Amounts  []int64
	Move     int
}

const (
	DeckChance    = "chance"
	DeckCommunity = "community"
)

// ChanceCards is the fixed chance deck.
func ChanceCards() []Card {
	return []Card{
		{Template: "Advance to Go. Collect {SALARY}", Kind: KindMovement, Move: 0},
		{Template: "Advance to Illinois Avenue", Kind: KindMovement, Move: 24},
		{Template: "Advance to St. Charles Place. If you pass Go, collect {SALARY}", Kind: KindMovement, Move: 11},
		{Template: "Advance to Reading Railroad", Kind: KindMovement, Move: 5},
		{Template: "Advance to Boardwalk", Kind: KindMovement, Move: 39},
		{Template: "Advance to the nearest railroad. If it is unowned you may buy it; if owned, pay double rent", Kind: KindMovement, Move: MoveNearestRailroad},
		{Template: "Advance to the nearest utility. If it is unowned you may buy it; if owned, roll and pay ten times the amount", Kind: KindMovement, Move: MoveNearestUtility},
		{Template: "Go back 3 spaces", Kind: KindMovement, Move: MoveBack3},
		{Template: "Go directly to Jail. Do not pass Go. Do not collect {SALARY}", Kind: KindJail},
		{Template: "The bank pays you a dividend of {50}", Kind: KindMoney, Amounts: []int64{50}},
		{Template: "Your loan and building matures. Collect {150}", Kind: KindMoney, Amounts: []int64{150}},
		{Template: "Speeding fine. Pay {15}", Kind: KindMoney, Amounts: []int64{-15}},
		{Template: "Poor tax. Pay {15}", Kind: KindMoney, Amounts: []int64{-15}},
		{Template: "Make general repairs on all your properties. Pay {25} per house and {100} per hotel", Kind: KindRepair, Amounts: []int64{-25, -100}},
		{Template: "You have been elected chairman of the board. Pay each player {50}", Kind: KindCollectFromAll, Amounts: []int64{-50}},
		{Template: "Get out of Jail free. This card may be kept until needed", Kind: KindGetOutOfJail},
	}
}

// CommunityCards is the fixed community chest deck.
func CommunityCards() []Card {
	return []Card{
		{Template: "Advance to Go. Collect {SALARY}", Kind: KindMovement, Move: 0},
		{Template: "Bank error in your favor. Collect {200}", Kind: KindMoney, Amounts: []int64{200}},
		{Template: "Doctor's fee. Pay {50}", Kind: KindMoney, Amounts: []int64{-50}},
		{Template: "You sell some stock. Collect {50}", Kind: KindMoney, Amounts: []int64{50}},
		{Template: "You win second prize in a beauty contest. Collect {10}", Kind: KindMoney, Amounts: []int64{10}},
		{Template: "You inherit {100}", Kind: KindMoney, Amounts: []int64{100}},
		{Template: "Your life insurance matures. Collect {100}", Kind: KindMoney, Amounts: []int64{100}},
		{Template: "Hospital fees. Pay {100}", Kind: KindMoney, Amounts: []int64{-100}},
		{Template: "School fees. Pay {50}", Kind: KindMoney, Amounts: []int64{-50}},
		{Template: "You receive a consultancy fee. Collect {25}", Kind: KindMoney, Amounts: []int64{25}},
		{Template: "Income tax. Pay {200}", Kind: KindMoney, Amounts: []int64{-200}},
		{Template: "It is your birthday. Every player gives you {10}", Kind: KindCollectFromAll, Amounts: []int64{10}},
		{Template: "Go directly to Jail. Do not pass Go. Do not collect {SALARY}", Kind: KindJail},
		{Template: "Street repairs. Pay {40} per house and {115} per hotel", Kind: KindRepair, Amounts: []int64{-40, -115}},
		{Template: "Get out of Jail free. This card may be kept until needed", Kind: KindGetOutOfJail},
	}
}
