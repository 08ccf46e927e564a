package registry

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
)

// Federation is the static membership of the notary federation
//
//go:generate mockgen -source=federation.go -destination=../mocks/federation.go -package=mocks -mock_names=Federation=MockFederation,FederationLoader=MockFederationLoader
type Federation interface {
	// Chain returns the primary chain the federation notarizes
	Chain() domain.Chain

	// Threshold returns the number of distinct signatures a quorum proof needs
	Threshold() int

	// Members returns the notaries in file order
	Members() []Member

	// Signers returns the signer addresses of all members
	Signers() []common.Address

	// IsMember checks if the address belongs to a member
	IsMember(address common.Address) bool
}

// Member is one notary of the federation
type Member struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Endpoint string `json:"endpoint"`
}

// FederationData represents the structure of the federation JSON file
type FederationData struct {
	Chain     domain.Chain `json:"chain"`
	Threshold int          `json:"threshold"`
	Members   []Member     `json:"members"`
}

// federation is the internal implementation of Federation interface
type federation struct {
	data    *FederationData
	signers []common.Address
	// Fast lookup map: signer -> member index
	members map[common.Address]int
}

// FederationLoader defines the interface for loading the federation from files
type FederationLoader interface {
	// Load loads the federation from a JSON file
	Load(filePath string) (Federation, error)
}

// federationLoader is the internal implementation of FederationLoader interface
type federationLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewFederationLoader creates a new FederationLoader with injected dependencies
func NewFederationLoader(fs adapter.FileSystem, json adapter.JSON) FederationLoader {
	return &federationLoader{
		fs:   fs,
		json: json,
	}
}

// Load loads the federation from a JSON file
func (l *federationLoader) Load(filePath string) (Federation, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read federation file: %w", err)
	}

	var federationData FederationData
	if err := l.json.Unmarshal(data, &federationData); err != nil {
		return nil, fmt.Errorf("failed to parse federation JSON: %w", err)
	}

	return NewFederation(federationData)
}

// NewFederation validates and indexes the federation data.
// A zero threshold defaults to a simple majority of the members.
func NewFederation(data FederationData) (Federation, error) {
	if !domain.IsValidChain(data.Chain) {
		return nil, fmt.Errorf("unsupported chain: %s", data.Chain)
	}
	if len(data.Members) == 0 {
		return nil, errors.New("federation has no members")
	}

	f := &federation{
		data:    &data,
		signers: make([]common.Address, 0, len(data.Members)),
		members: make(map[common.Address]int, len(data.Members)),
	}

	for i, member := range data.Members {
		if !common.IsHexAddress(member.Address) {
			return nil, fmt.Errorf("member %d has an invalid address: %s", i, member.Address)
		}
		if member.Endpoint == "" {
			return nil, fmt.Errorf("member %s has no endpoint", member.Address)
		}

		address := common.HexToAddress(member.Address)
		if _, ok := f.members[address]; ok {
			return nil, fmt.Errorf("duplicate member: %s", member.Address)
		}
		f.members[address] = i
		f.signers = append(f.signers, address)
	}

	if data.Threshold == 0 {
		data.Threshold = len(data.Members)/2 + 1
	}
	if data.Threshold < 0 || data.Threshold > len(data.Members) {
		return nil, fmt.Errorf("threshold %d out of range for %d members", data.Threshold, len(data.Members))
	}

	return f, nil
}

func (f *federation) Chain() domain.Chain {
	return f.data.Chain
}

func (f *federation) Threshold() int {
	return f.data.Threshold
}

func (f *federation) Members() []Member {
	members := make([]Member, len(f.data.Members))
	copy(members, f.data.Members)
	return members
}

func (f *federation) Signers() []common.Address {
	signers := make([]common.Address, len(f.signers))
	copy(signers, f.signers)
	return signers
}

func (f *federation) IsMember(address common.Address) bool {
	if f == nil {
		return false
	}
	_, ok := f.members[address]
	return ok
}
