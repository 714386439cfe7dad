// Package billing wraps the remote billing service behind a small client
// interface. Provisioning a billing account is a synchronous, in-path call:
// callers of the patient API may depend on the account existing before the
// create response returns.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable is the single failure category for the billing call.
// Connection failures, remote rejections, and timeouts all collapse into it;
// the transport does not give callers a structured distinction.
var ErrUnavailable = errors.New("billing service unavailable")

// Account is the billing service's view of a provisioned account.
type Account struct {
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
}

// Client provisions billing accounts for patients.
type Client interface {
	CreateAccount(ctx context.Context, patientID, name, email string) (*Account, error)
}

// DefaultTimeout bounds the billing call when no timeout is configured.
// The call sits in the request path, so it must never block unbounded.
const DefaultTimeout = 5 * time.Second

type accountRequest struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// HTTPClient calls the billing service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) CreateAccount(ctx context.Context, patientID, name, email string) (*Account, error) {
	body, err := json.Marshal(accountRequest{PatientID: patientID, Name: name, Email: email})
	if err != nil {
		return nil, fmt.Errorf("encode billing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/billing/accounts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build billing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info().Str("patient_id", patientID).Msg("creating billing account")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var acct Account
	if err := json.NewDecoder(resp.Body).Decode(&acct); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	c.logger.Info().
		Str("patient_id", patientID).
		Str("account_id", acct.AccountID).
		Str("status", acct.Status).
		Msg("billing account created")
	return &acct, nil
}
