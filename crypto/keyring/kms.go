// Package keyring signs transactions with secp256k1 keys held in AWS KMS, so
// that the key of a feeder never leaves the HSM.
package keyring

import (
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kms"
	"github.com/aws/aws-sdk-go/service/kms/kmsiface"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

const (
	// BackendKMS selects KMS signing for the feeder.
	BackendKMS = "kms-aws"

	KMSKeySpec       = "ECC_SECG_P256K1"
	SigningAlgorithm = "ECDSA_SHA_256"

	EnvAWSRegion = "AWS_REGION"
)

var (
	ErrRegionNotSet     = errors.New("AWS region is not set")
	ErrInvalidKeySpec   = errors.New("KMS key is not a secp256k1 signing key")
	ErrInvalidPublicKey = errors.New("invalid KMS public key")
	ErrInvalidSignature = errors.New("invalid KMS signature")
)

func IsKMSBackend(backend string) bool {
	return backend == BackendKMS
}

type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

type ecdsaSignature struct {
	R, S *big.Int
}

// KMSSigner signs with the KMS key KeyID.
type KMSSigner struct {
	client kmsiface.KMSAPI
	keyID  string
	pubKey *secp256k1.PubKey
}

// NewKMSClient opens a KMS client for region, falling back to $AWS_REGION.
func NewKMSClient(region string) (kmsiface.KMSAPI, error) {
	if region == "" {
		region = os.Getenv(EnvAWSRegion)
	}
	if region == "" {
		return nil, ErrRegionNotSet
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS session")
	}
	return kms.New(sess), nil
}

// NewKMSSigner fetches the public key of keyID.
func NewKMSSigner(client kmsiface.KMSAPI, keyID string) (*KMSSigner, error) {
	out, err := client.GetPublicKey(&kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key of %s", keyID)
	}
	if aws.StringValue(out.KeySpec) != KMSKeySpec {
		return nil, errors.Wrapf(ErrInvalidKeySpec, "%s has spec %s", keyID, aws.StringValue(out.KeySpec))
	}
	pubKey, err := parsePublicKey(out.PublicKey)
	if err != nil {
		return nil, err
	}
	return &KMSSigner{client: client, keyID: keyID, pubKey: pubKey}, nil
}

func (s *KMSSigner) PubKey() cryptotypes.PubKey {
	return s.pubKey
}

func (s *KMSSigner) Address() sdk.AccAddress {
	return sdk.AccAddress(s.pubKey.Address())
}

// Sign returns the 64 byte r||s signature of sha256(msg) with a low s.
func (s *KMSSigner) Sign(msg []byte) ([]byte, cryptotypes.PubKey, error) {
	digest := sha256.Sum256(msg)
	out, err := s.client.Sign(&kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          digest[:],
		MessageType:      aws.String(kms.MessageTypeDigest),
		SigningAlgorithm: aws.String(SigningAlgorithm),
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "KMS failed to sign with %s", s.keyID)
	}
	sig, err := compactSignature(out.Signature)
	if err != nil {
		return nil, nil, err
	}
	return sig, s.pubKey, nil
}

func parsePublicKey(der []byte) (*secp256k1.PubKey, error) {
	var info subjectPublicKeyInfo
	if rest, err := asn1.Unmarshal(der, &info); err != nil || len(rest) != 0 {
		return nil, ErrInvalidPublicKey
	}
	key, err := btcec.ParsePubKey(info.PublicKey.RightAlign())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return &secp256k1.PubKey{Key: key.SerializeCompressed()}, nil
}

func compactSignature(der []byte) ([]byte, error) {
	var sig ecdsaSignature
	if rest, err := asn1.Unmarshal(der, &sig); err != nil || len(rest) != 0 {
		return nil, ErrInvalidSignature
	}

	n := btcec.S256().N
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 || sig.R.Cmp(n) >= 0 || sig.S.Cmp(n) >= 0 {
		return nil, ErrInvalidSignature
	}
	// secp256k1 verification rejects the malleable high s form
	halfOrder := new(big.Int).Rsh(n, 1)
	if sig.S.Cmp(halfOrder) > 0 {
		sig.S = new(big.Int).Sub(n, sig.S)
	}

	out := make([]byte, 64)
	sig.R.FillBytes(out[:32])
	sig.S.FillBytes(out[32:])
	return out, nil
}
