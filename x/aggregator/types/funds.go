package types

import (
	"cosmossdk.io/math"
)

// ReserveRounds is the number of rounds every oracle must be payable for.
const ReserveRounds = 2

// Funds splits the module balance into what is free and what is owed to oracles.
type Funds struct {
	Available math.Int `json:"available"`
	Allocated math.Int `json:"allocated"`
}

func ZeroFunds() Funds {
	return Funds{Available: math.ZeroInt(), Allocated: math.ZeroInt()}
}

// Total is the amount the module is accountable for.
func (f Funds) Total() math.Int {
	return f.Available.Add(f.Allocated)
}

// RequiredReserve is the available balance needed to pay every oracle for
// ReserveRounds rounds.
func RequiredReserve(payment math.Int, oracleCount uint64) math.Int {
	return payment.Mul(math.NewIntFromUint64(oracleCount)).MulRaw(ReserveRounds)
}

func (f Funds) Marshal() []byte {
	return MustMarshalValue(f)
}

func (f *Funds) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, f)
}
