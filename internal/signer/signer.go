package signer

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/feral-file/notary-bridge/internal/canonical"
	"github.com/feral-file/notary-bridge/internal/domain"
)

//go:generate mockgen -source=signer.go -destination=../mocks/signer.go -package=mocks -mock_names=Signer=MockSigner

// Signer signs canonical messages with the notary key
type Signer interface {
	// Sign returns the recoverable signature over the message signing hash
	Sign(msg canonical.Message) (domain.SignatureComponents, error)

	// Address returns the primary chain address of the signing key
	Address() common.Address
}

// KeySigner signs with an in-memory ECDSA private key
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner creates a signer from a private key
func NewKeySigner(key *ecdsa.PrivateKey) (*KeySigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", domain.ErrKeyUnavailable)
	}
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewKeySignerFromHex creates a signer from a hex encoded private key
func NewKeySignerFromHex(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		// the parse error may echo key material
		return nil, fmt.Errorf("%w: invalid hex private key", domain.ErrKeyUnavailable)
	}
	return NewKeySigner(key)
}

// NewKeySignerFromKeystore decrypts a go-ethereum keystore file
func NewKeySignerFromKeystore(path string, passphrase string) (*KeySigner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read keystore: %v", domain.ErrKeyUnavailable, err)
	}
	k, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt keystore: %v", domain.ErrKeyUnavailable, err)
	}
	return NewKeySigner(k.PrivateKey)
}

// Address returns the signer address
func (s *KeySigner) Address() common.Address {
	return s.address
}

// Sign signs the message signing hash and returns V in {27, 28}
func (s *KeySigner) Sign(msg canonical.Message) (domain.SignatureComponents, error) {
	var sig domain.SignatureComponents

	hash := msg.SigningHash()
	raw, err := crypto.Sign(hash.Bytes(), s.key)
	if err != nil {
		return sig, fmt.Errorf("%w: %v", domain.ErrKeyUnavailable, err)
	}

	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64] + 27
	return sig, nil
}

// Recover returns the address that produced sig over msg
func Recover(msg canonical.Message, sig domain.SignatureComponents) (common.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return common.Address{}, fmt.Errorf("%w: invalid v %d", domain.ErrInvalidSignature, sig.V)
	}

	hash := msg.SigningHash()
	pub, err := crypto.SigToPub(hash.Bytes(), sig.Bytes())
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify checks that sig over msg was produced by expected
func Verify(msg canonical.Message, sig domain.SignatureComponents, expected common.Address) error {
	recovered, err := Recover(msg, sig)
	if err != nil {
		return err
	}
	if recovered != expected {
		return fmt.Errorf("%w: recovered %s, expected %s", domain.ErrInvalidSignature, recovered.Hex(), expected.Hex())
	}
	return nil
}
