package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// OTPFactor selects the provider factor used for one-time passcodes.
type OTPFactor string

const (
	OTPFactorEmail OTPFactor = "emailotp"
	OTPFactorSMS   OTPFactor = "smsotp"
)

func (f OTPFactor) verificationsPath() string {
	return "/v2.0/factors/" + string(f) + "/transient/verifications"
}

// RequestOTP asks the provider to issue a transient OTP. The payload is
// the client's request body passed through untouched (emailAddress or
// phoneNumber plus correlation prefix); the provider's response, which
// includes the verification id, is returned as-is.
func (c *Client) RequestOTP(ctx context.Context, serviceToken string, factor OTPFactor, payload []byte) (json.RawMessage, error) {
	endpoint := c.cfg.TenantURL + factor.verificationsPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+serviceToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("otp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.upstreamError(factor.verificationsPath(), resp)
	}

	var data json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode otp response: %w", err)
	}
	return data, nil
}

// VerifyOTP submits the user-entered passcode against a pending
// verification. Success is a 2xx with nothing to parse.
func (c *Client) VerifyOTP(ctx context.Context, serviceToken string, factor OTPFactor, otpID, otp string) error {
	body, err := json.Marshal(map[string]string{"otp": otp})
	if err != nil {
		return err
	}

	endpoint := c.cfg.TenantURL + factor.verificationsPath() + "/" + otpID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+serviceToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("otp verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.upstreamError(factor.verificationsPath(), resp)
	}
	return nil
}
