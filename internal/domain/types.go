package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainEthereumDevnet  Chain = "eip155:1337"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainEthereumSepolia ||
		chain == ChainEthereumDevnet
}

// OperationKind is the closed set of state changes notaries sign for
type OperationKind string

const (
	OperationWithdraw    OperationKind = "withdraw"
	OperationMint        OperationKind = "mint"
	OperationAddPeer     OperationKind = "add_peer"
	OperationRemovePeer  OperationKind = "remove_peer"
	OperationAttestation OperationKind = "attestation"
)

// IsValidOperationKind checks if a kind is one of the known operation kinds
func IsValidOperationKind(kind OperationKind) bool {
	switch kind {
	case OperationWithdraw, OperationMint, OperationAddPeer, OperationRemovePeer, OperationAttestation:
		return true
	default:
		return false
	}
}

// Operation is a request to authorize a state change on the primary chain.
// Which fields are used depends on Kind:
//   - withdraw, mint: Asset, Amount, Beneficiary, TriggerHash, Context
//   - add_peer, remove_peer: Peer, TriggerHash
//   - attestation: Root (TriggerHash identifies the ledger transaction that set it)
//
// Amount is the base-unit integer amount as a decimal string.
type Operation struct {
	Kind        OperationKind `json:"kind"`
	TriggerHash string        `json:"trigger_hash"`
	Asset       string        `json:"asset,omitempty"`
	Amount      string        `json:"amount,omitempty"`
	Beneficiary string        `json:"beneficiary,omitempty"`
	Context     string        `json:"context,omitempty"`
	Peer        string        `json:"peer,omitempty"`
	Root        string        `json:"root,omitempty"`
}

// SignatureComponents is the v/r/s decomposition of a recoverable ECDSA signature
type SignatureComponents struct {
	V uint8    `json:"v"`
	R [32]byte `json:"-"`
	S [32]byte `json:"-"`
}

// RHex returns r as 0x-prefixed hex
func (s SignatureComponents) RHex() string {
	return "0x" + hex.EncodeToString(s.R[:])
}

// SHex returns s as 0x-prefixed hex
func (s SignatureComponents) SHex() string {
	return "0x" + hex.EncodeToString(s.S[:])
}

// Bytes returns the 65-byte [R || S || V] form with V in {0, 1} as expected by ecrecover helpers
func (s SignatureComponents) Bytes() []byte {
	sig := make([]byte, 65)
	copy(sig[:32], s.R[:])
	copy(sig[32:64], s.S[:])
	sig[64] = s.V
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	return sig
}

// SignatureComponentsFromHex builds components from hex encoded r and s
func SignatureComponentsFromHex(v uint8, r string, s string) (SignatureComponents, error) {
	var sig SignatureComponents
	sig.V = v

	rb, err := decodeHex32(r)
	if err != nil {
		return sig, fmt.Errorf("invalid r: %w", err)
	}
	sb, err := decodeHex32(s)
	if err != nil {
		return sig, fmt.Errorf("invalid s: %w", err)
	}
	sig.R = rb
	sig.S = sb
	return sig, nil
}

func decodeHex32(value string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X"))
	if err != nil {
		return out, err
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// SignedProof is one notary's signature over a canonical message
type SignedProof struct {
	Signer    common.Address      `json:"signer_address"`
	Signature SignatureComponents `json:"signature"`
}

// QuorumProof is an arrival-ordered set of proofs over one canonical message
type QuorumProof struct {
	Kind        OperationKind `json:"kind"`
	TriggerHash string        `json:"trigger_hash"`
	Digest      common.Hash   `json:"digest"`
	Proofs      []SignedProof `json:"proofs"`
}

// Len returns the number of signatures in the proof
func (q *QuorumProof) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Proofs)
}

// Contains reports whether the signer already contributed to the proof
func (q *QuorumProof) Contains(signer common.Address) bool {
	if q == nil {
		return false
	}
	for _, p := range q.Proofs {
		if p.Signer == signer {
			return true
		}
	}
	return false
}

// VRS splits the proof into the parallel arrays taken by the master contract
func (q *QuorumProof) VRS() ([]uint8, [][32]byte, [][32]byte) {
	v := make([]uint8, 0, q.Len())
	r := make([][32]byte, 0, q.Len())
	s := make([][32]byte, 0, q.Len())
	for _, p := range q.Proofs {
		v = append(v, p.Signature.V)
		r = append(r, p.Signature.R)
		s = append(s, p.Signature.S)
	}
	return v, r, s
}

// AllocationState is the lifecycle state of a pool address
type AllocationState string

const (
	AllocationFree      AllocationState = "free"
	AllocationAllocated AllocationState = "allocated"
)

// AddressAllocation tracks which ledger account owns a pool address
type AddressAllocation struct {
	Address        string          `json:"address"`
	OwnerAccountID *string         `json:"owner_account_id,omitempty"`
	State          AllocationState `json:"state"`
}

// UsedHashRecord marks a trigger hash as consumed for an operation kind
type UsedHashRecord struct {
	TriggerHash string        `json:"trigger_hash"`
	Kind        OperationKind `json:"kind"`
}

// LimitState is the current withdrawal ceiling of a governed asset
type LimitState struct {
	Asset        string    `json:"asset"`
	CurrentLimit string    `json:"current_limit"`
	ValidUntil   time.Time `json:"valid_until"`
}

// Expired reports whether the limit must be recomputed at now
func (l *LimitState) Expired(now time.Time) bool {
	return l == nil || !now.Before(l.ValidUntil)
}

// TokenInfo describes a token watched on the primary chain
type TokenInfo struct {
	Address   string `json:"address"`
	AssetID   string `json:"asset_id"`
	Precision int32  `json:"precision"`
	Anchor    Anchor `json:"anchor"`
}

// NormalizeAddress normalizes an Ethereum address to its lowercase hex form
func NormalizeAddress(address string) string {
	return strings.ToLower(common.HexToAddress(address).Hex())
}

// NormalizeHash normalizes a 32-byte hash to lowercase 0x-prefixed hex
func NormalizeHash(hash string) string {
	return strings.ToLower(common.HexToHash(hash).Hex())
}

// IsHexHash checks if the value is a 0x-prefixed or bare 32-byte hex string
func IsHexHash(value string) bool {
	raw := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(raw) != 64 {
		return false
	}
	_, err := hex.DecodeString(raw)
	return err == nil
}

// IssuedProof is a signature this notary already released for a trigger
type IssuedProof struct {
	Kind        OperationKind `json:"kind"`
	TriggerHash string        `json:"trigger_hash"`
	Digest      common.Hash   `json:"digest"`
	Proof       SignedProof   `json:"proof"`
	IssuedAt    time.Time     `json:"issued_at"`
}
