package types

import (
	"strings"

	"cosmossdk.io/math"
)

// Submission is one report. Feeds carrying several values per report compute
// a median for every position independently.
type Submission struct {
	Values []math.Int `json:"values"`
}

func NewSubmission(values ...math.Int) Submission {
	return Submission{Values: values}
}

func (s Submission) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// Round is the public record of one aggregation cycle.
type Round struct {
	RoundID         uint64      `json:"round_id"`
	Answer          *Submission `json:"answer,omitempty"`
	StartedAt       uint64      `json:"started_at"`
	UpdatedAt       uint64      `json:"updated_at"`
	AnsweredInRound uint64      `json:"answered_in_round"`
	Decimals        uint32      `json:"decimals"`
	Description     string      `json:"description"`
}

// Answered reports whether the round reached its minimum submission count,
// or had an earlier answer carried into it on timeout.
func (r Round) Answered() bool {
	return r.UpdatedAt > 0
}

func (r Round) Marshal() []byte {
	return MustMarshalValue(r)
}

func (r *Round) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, r)
}

// RoundDetails holds the submissions of an open round together with the
// parameters snapshotted when the round was opened.
type RoundDetails struct {
	Submissions    []Submission `json:"submissions"`
	MaxSubmissions uint32       `json:"max_submissions"`
	MinSubmissions uint32       `json:"min_submissions"`
	Timeout        uint64       `json:"timeout"`
	PaymentAmount  math.Int     `json:"payment_amount"`
}

// Full reports whether no further submission can be recorded.
func (d RoundDetails) Full() bool {
	return uint32(len(d.Submissions)) >= d.MaxSubmissions
}

func (d RoundDetails) Marshal() []byte {
	return MustMarshalValue(d)
}

func (d *RoundDetails) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, d)
}
