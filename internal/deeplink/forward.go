package deeplink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotRunning is returned by Forward when no instance is listening.
var ErrNotRunning = errors.New("no running instance")

const forwardTimeout = 3 * time.Second

// Forward hands link to the instance listening on addr and returns the id it
// accepted.
func Forward(ctx context.Context, addr, link string) (string, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	endpoint := (&url.URL{Scheme: "http", Host: addr, Path: "/open"}).String()
	form := url.Values{"link": {link}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: forwardTimeout}
	resp, err := client.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return "", fmt.Errorf("forward to %s: %w", addr, ErrNotRunning)
		}
		return "", fmt.Errorf("forward to %s: %w", addr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("forward to %s: status %d: %s", addr, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var accepted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &accepted); err != nil {
		return "", fmt.Errorf("decode forward response: %w", err)
	}
	return accepted.ID, nil
}
