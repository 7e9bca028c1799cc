package models

// Session is the persisted record of one game session. Live state
// (roster, balances, pool) is store-owned; this row is for browsing and
// verification only.
type Session struct {
	Id     string
	Name   string
	Status string
	// Economy configuration frozen at creation.
	AnchorValue     int64
	MinDenomination int64
}

type SessionCreateDto struct {
	Name            string `json:"name"`
	AnchorValue     int64  `json:"anchor_value"`
	MinDenomination int64  `json:"min_denomination"`
}

type VerifySessionDto struct {
	Code string `query:"code"`
}
