package notary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/feral-file/notary-bridge/internal/adapter"
	"github.com/feral-file/notary-bridge/internal/domain"
)

// VERIFY_TRIGGER_PATH is the ledger route that checks an operation against its trigger transaction
const VERIFY_TRIGGER_PATH = "/api/v1/triggers/verify"

type verifyTriggerResponse struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

type httpVerifier struct {
	url    string
	client adapter.HTTPClient
}

// NewHTTPTriggerVerifier creates a verifier backed by the secondary ledger gateway at baseURL
func NewHTTPTriggerVerifier(baseURL string, client adapter.HTTPClient) TriggerVerifier {
	return &httpVerifier{
		url:    strings.TrimSuffix(baseURL, "/") + VERIFY_TRIGGER_PATH,
		client: client,
	}
}

// VerifyTrigger asks the ledger whether the trigger transaction backs op.
// An unknown trigger is reported the same way as a mismatching one.
func (v *httpVerifier) VerifyTrigger(ctx context.Context, op domain.Operation) error {
	var resp verifyTriggerResponse
	if err := v.client.PostJSON(ctx, v.url, op, &resp); err != nil {
		var statusErr *adapter.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: trigger %s not found", domain.ErrUnverifiedTrigger, op.TriggerHash)
		}
		return fmt.Errorf("failed to verify trigger: %w", err)
	}

	if !resp.Verified {
		if resp.Reason != "" {
			return fmt.Errorf("%w: %s", domain.ErrUnverifiedTrigger, resp.Reason)
		}
		return fmt.Errorf("%w: trigger %s does not match the operation", domain.ErrUnverifiedTrigger, op.TriggerHash)
	}
	return nil
}
