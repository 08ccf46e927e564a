package proof

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
)

// PROOFS_PATH is the signer endpoint route relative to a notary base URL
const PROOFS_PATH = "/api/v1/proofs"

// Endpoint is a notary signer endpoint
//
//go:generate mockgen -source=endpoint.go -destination=../mocks/proof_endpoint.go -package=mocks -mock_names=Endpoint=MockProofEndpoint
type Endpoint interface {
	// Name identifies the endpoint in logs
	Name() string
	// RequestProof asks the notary to sign the operation
	RequestProof(ctx context.Context, op domain.Operation) (*domain.SignedProof, error)
}

// SignatureResponse is the JSON body returned by a signer endpoint
type SignatureResponse struct {
	SignerAddress string `json:"signer_address"`
	V             uint8  `json:"v"`
	R             string `json:"r"`
	S             string `json:"s"`
	Digest        string `json:"digest"`
}

// NewSignatureResponse converts a signed proof into its wire form
func NewSignatureResponse(digest common.Hash, proof domain.SignedProof) SignatureResponse {
	return SignatureResponse{
		SignerAddress: proof.Signer.Hex(),
		V:             proof.Signature.V,
		R:             proof.Signature.RHex(),
		S:             proof.Signature.SHex(),
		Digest:        digest.Hex(),
	}
}

// SignedProof decodes the wire form
func (r SignatureResponse) SignedProof() (*domain.SignedProof, error) {
	if !common.IsHexAddress(r.SignerAddress) {
		return nil, fmt.Errorf("invalid signer address: %q", r.SignerAddress)
	}
	sig, err := domain.SignatureComponentsFromHex(r.V, r.R, r.S)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	return &domain.SignedProof{
		Signer:    common.HexToAddress(r.SignerAddress),
		Signature: sig,
	}, nil
}

type httpEndpoint struct {
	url    string
	client adapter.HTTPClient
}

// NewHTTPEndpoint creates an endpoint for the notary served at baseURL
func NewHTTPEndpoint(baseURL string, client adapter.HTTPClient) Endpoint {
	return &httpEndpoint{
		url:    strings.TrimSuffix(baseURL, "/") + PROOFS_PATH,
		client: client,
	}
}

func (e *httpEndpoint) Name() string {
	return e.url
}

// RequestProof posts the operation; transient failures are retried by the HTTP client until ctx ends
func (e *httpEndpoint) RequestProof(ctx context.Context, op domain.Operation) (*domain.SignedProof, error) {
	var resp SignatureResponse
	if err := e.client.PostJSON(ctx, e.url, op, &resp); err != nil {
		return nil, fmt.Errorf("failed to request proof from %s: %w", e.url, err)
	}
	return resp.SignedProof()
}
