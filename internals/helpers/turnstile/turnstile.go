package turnstile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coursedig_backend/internals/configs"
)

const verifyEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// hard network timeout on the verify call, independent of the request deadline
var client = &http.Client{Timeout: 5 * time.Second}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a Turnstile token against Cloudflare. A missing secret key
// skips verification with a logged warning (dev mode). Upstream failure is
// reported as not-verified; the caller decides whether that blocks.
func Verify(ctx context.Context, token, remoteIP string) (bool, []string) {
	if configs.TurnstileSecret == "" {
		log.Println("[TURNSTILE] secret key not set, skipping verification")
		return true, nil
	}
	if strings.TrimSpace(token) == "" {
		return false, []string{"missing-input-response"}
	}

	form := url.Values{}
	form.Set("secret", configs.TurnstileSecret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, []string{"internal-error"}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[TURNSTILE] verify call failed: %v", err)
		return false, []string{"upstream-unavailable"}
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, []string{"bad-response"}
	}
	return out.Success, out.ErrorCodes
}
