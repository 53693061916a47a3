package app

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

var prefixSequence = []byte("sequence/")

// Tx is a signed message. The signer of the message must own PubKey and
// Sequence must match the number of transactions it already sent.
type Tx struct {
	ChainID   string          `json:"chain_id"`
	Sequence  uint64          `json:"sequence"`
	Type      string          `json:"type"`
	Msg       json.RawMessage `json:"msg"`
	PubKey    []byte          `json:"pub_key,omitempty"`
	Signature []byte          `json:"signature,omitempty"`
}

type signDoc struct {
	ChainID  string          `json:"chain_id"`
	Sequence uint64          `json:"sequence,string"`
	Type     string          `json:"type"`
	Msg      json.RawMessage `json:"msg"`
}

// NewTx encodes msg into an unsigned transaction.
func NewTx(chainID string, sequence uint64, msg gurutypes.Msg) (Tx, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return Tx{}, errorsmod.Wrap(sdkerrors.ErrJSONMarshal, err.Error())
	}
	return Tx{ChainID: chainID, Sequence: sequence, Type: msg.Type(), Msg: bz}, nil
}

// SignBytes returns the canonical bytes covered by the signature.
func (tx Tx) SignBytes() []byte {
	bz, err := json.Marshal(signDoc{ChainID: tx.ChainID, Sequence: tx.Sequence, Type: tx.Type, Msg: tx.Msg})
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// Signer signs transaction bytes.
type Signer interface {
	Sign(msg []byte) ([]byte, cryptotypes.PubKey, error)
}

// KeyringSigner signs with a named key of a keyring.
type KeyringSigner struct {
	Keyring keyring.Keyring
	UID     string
}

func (s KeyringSigner) Sign(msg []byte) ([]byte, cryptotypes.PubKey, error) {
	return s.Keyring.Sign(s.UID, msg)
}

// PrivKeySigner signs with an in-memory key.
type PrivKeySigner struct {
	PrivKey cryptotypes.PrivKey
}

func (s PrivKeySigner) Sign(msg []byte) ([]byte, cryptotypes.PubKey, error) {
	sig, err := s.PrivKey.Sign(msg)
	if err != nil {
		return nil, nil, err
	}
	return sig, s.PrivKey.PubKey(), nil
}

// Sign attaches the signature and public key of signer.
func (tx *Tx) Sign(signer Signer) error {
	sig, pub, err := signer.Sign(tx.SignBytes())
	if err != nil {
		return err
	}
	tx.PubKey = pub.Bytes()
	tx.Signature = sig
	return nil
}

// verifyTx checks the chain id, the signature and the sequence of tx and
// increments the sequence of the signer.
func (app *App) verifyTx(ctx sdk.Context, tx Tx, msg gurutypes.Msg) error {
	if tx.ChainID != app.chainID {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidChainID, "expected %s, got %s", app.chainID, tx.ChainID)
	}
	if len(tx.PubKey) != secp256k1.PubKeySize {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidPubKey, "length %d", len(tx.PubKey))
	}

	pubKey := &secp256k1.PubKey{Key: tx.PubKey}
	signers := msg.GetSigners()
	if len(signers) != 1 || !signers[0].Equals(sdk.AccAddress(pubKey.Address())) {
		return errorsmod.Wrapf(sdkerrors.ErrUnauthorized, "pubkey does not match signer of %s", msg.Type())
	}
	if !pubKey.VerifySignature(tx.SignBytes(), tx.Signature) {
		return errorsmod.Wrap(sdkerrors.ErrUnauthorized, "signature verification failed")
	}

	signer := signers[0]
	seq := app.getSequence(ctx, signer)
	if tx.Sequence != seq {
		return errorsmod.Wrapf(sdkerrors.ErrWrongSequence, "account sequence mismatch, expected %d, got %d", seq, tx.Sequence)
	}
	app.setSequence(ctx, signer, seq+1)
	return nil
}

func (app *App) getSequence(ctx sdk.Context, addr sdk.AccAddress) uint64 {
	bz := ctx.KVStore(app.keys[StoreKey]).Get(append(prefixSequence, addr...))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

func (app *App) setSequence(ctx sdk.Context, addr sdk.AccAddress, seq uint64) {
	ctx.KVStore(app.keys[StoreKey]).Set(append(prefixSequence, addr...), sdk.Uint64ToBigEndian(seq))
}
