// Package canonical builds the byte-exact messages notaries sign.
//
// Every notary must produce the same bytes for the same operation, otherwise the
// signatures will not aggregate into a quorum. Payloads follow Solidity's
// abi.encodePacked so the master contract can rebuild them with keccak256.
package canonical

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/feral-file/notary-bridge/internal/amount"
	"github.com/feral-file/notary-bridge/internal/domain"
)

// Message is the canonical signing message of an operation
type Message struct {
	Kind    domain.OperationKind
	Payload []byte
}

// Digest returns keccak256 of the packed payload
func (m Message) Digest() common.Hash {
	return crypto.Keccak256Hash(m.Payload)
}

// SigningHash returns the Ethereum signed-message hash of the digest.
// This is the value recovered by ecrecover in the master contract.
func (m Message) SigningHash() common.Hash {
	digest := m.Digest()
	return common.BytesToHash(accounts.TextHash(digest.Bytes()))
}

// Equal reports whether both messages carry the same kind and bytes
func (m Message) Equal(other Message) bool {
	return m.Kind == other.Kind && bytes.Equal(m.Payload, other.Payload)
}

// Build validates the operation and returns its canonical message
func Build(op domain.Operation) (Message, error) {
	switch op.Kind {
	case domain.OperationWithdraw, domain.OperationMint:
		return buildTransfer(op)
	case domain.OperationAddPeer, domain.OperationRemovePeer:
		return buildPeer(op)
	case domain.OperationAttestation:
		return buildAttestation(op)
	default:
		return Message{}, domain.MalformedOperationError("unknown operation kind %q", op.Kind)
	}
}

// buildTransfer encodes (address asset, uint256 amount, address beneficiary, bytes32 trigger, address context)
func buildTransfer(op domain.Operation) (Message, error) {
	asset, err := parseAddress("asset", op.Asset)
	if err != nil {
		return Message{}, err
	}
	value, _, err := amount.NormalizeBaseUnits(op.Amount)
	if err != nil {
		return Message{}, domain.MalformedOperationError("%v", err)
	}
	beneficiary, err := parseAddress("beneficiary", op.Beneficiary)
	if err != nil {
		return Message{}, err
	}
	trigger, err := parseHash("trigger_hash", op.TriggerHash)
	if err != nil {
		return Message{}, err
	}
	context, err := parseAddress("context", op.Context)
	if err != nil {
		return Message{}, err
	}

	payload := make([]byte, 0, 20+32+20+32+20)
	payload = append(payload, asset.Bytes()...)
	payload = append(payload, encodeUint256(value)...)
	payload = append(payload, beneficiary.Bytes()...)
	payload = append(payload, trigger.Bytes()...)
	payload = append(payload, context.Bytes()...)

	return Message{Kind: op.Kind, Payload: payload}, nil
}

// buildPeer encodes (address peer, bytes32 trigger)
func buildPeer(op domain.Operation) (Message, error) {
	peer, err := parseAddress("peer", op.Peer)
	if err != nil {
		return Message{}, err
	}
	trigger, err := parseHash("trigger_hash", op.TriggerHash)
	if err != nil {
		return Message{}, err
	}

	payload := make([]byte, 0, 20+32)
	payload = append(payload, peer.Bytes()...)
	payload = append(payload, trigger.Bytes()...)

	return Message{Kind: op.Kind, Payload: payload}, nil
}

// buildAttestation encodes the raw 32-byte root
func buildAttestation(op domain.Operation) (Message, error) {
	root, err := parseHash("root", op.Root)
	if err != nil {
		return Message{}, err
	}
	return Message{Kind: op.Kind, Payload: root.Bytes()}, nil
}

func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, domain.MalformedOperationError("invalid %s address %q", field, value)
	}
	return common.HexToAddress(value), nil
}

func parseHash(field, value string) (common.Hash, error) {
	if !domain.IsHexHash(value) {
		return common.Hash{}, domain.MalformedOperationError("invalid %s %q", field, value)
	}
	return common.HexToHash(value), nil
}

func encodeUint256(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}
