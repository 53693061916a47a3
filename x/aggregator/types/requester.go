package types

// Requester may open rounds without submitting, at most once every Delay rounds.
type Requester struct {
	Authorized       bool   `json:"authorized"`
	Delay            uint64 `json:"delay"`
	LastStartedRound uint64 `json:"last_started_round"`
}

func (r Requester) Marshal() []byte {
	return MustMarshalValue(r)
}

func (r *Requester) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, r)
}
