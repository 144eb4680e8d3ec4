package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/pkg/onramp"
)

const (
	DefaultBridgeURL  = "http://127.0.0.1:19455"
	DefaultInstallURL = "https://zkp2p.xyz/extension"

	defaultRequestTimeout = 10 * time.Second
	availabilityTimeout   = 2 * time.Second
)

// BridgeError is returned when the bridge answers with a non-2xx status.
type BridgeError struct {
	StatusCode int
	Message    string
}

func (e *BridgeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bridge returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("bridge returned HTTP %d: %s", e.StatusCode, e.Message)
}

// BridgeConfig configures a Bridge client.
type BridgeConfig struct {
	BaseURL    string
	InstallURL string
	Token      string
	HTTPClient *http.Client
	// OpenURL opens the install page. Defaults to the system browser.
	OpenURL func(url string) error
}

// Bridge reaches the extension through the HTTP API its native messaging
// host exposes on loopback.
type Bridge struct {
	baseURL    string
	installURL string
	token      string
	http       *http.Client
	openURL    func(string) error

	mu      sync.Mutex
	version string
}

var _ Extension = (*Bridge)(nil)

type stateResponse struct {
	State   State  `json:"state"`
	Version string `json:"version,omitempty"`
}

type connectionResponse struct {
	Status *string `json:"status"`
}

type approvalResponse struct {
	Approved bool `json:"approved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewBridge returns a client for the bridge described by cfg.
func NewBridge(cfg BridgeConfig) *Bridge {
	b := &Bridge{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		installURL: cfg.InstallURL,
		token:      cfg.Token,
		http:       cfg.HTTPClient,
		openURL:    cfg.OpenURL,
	}
	if b.baseURL == "" {
		b.baseURL = DefaultBridgeURL
	}
	if b.installURL == "" {
		b.installURL = DefaultInstallURL
	}
	if b.http == nil {
		b.http = &http.Client{Timeout: defaultRequestTimeout}
	}
	if b.openURL == nil {
		b.openURL = browser.OpenURL
	}
	return b
}

// GetState probes the extension and records the version it reports.
func (b *Bridge) GetState(ctx context.Context) (State, error) {
	var resp stateResponse
	if err := b.do(ctx, http.MethodGet, "/v1/state", nil, &resp); err != nil {
		return "", err
	}
	b.mu.Lock()
	b.version = resp.Version
	b.mu.Unlock()
	return resp.State, nil
}

// IsAvailable performs a short synchronous probe. Any failure reads as
// unavailable.
func (b *Bridge) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()
	state, err := b.GetState(ctx)
	if err != nil {
		pterm.Debug.Printf("availability probe failed: %v\n", err)
		return false
	}
	return state.Installed()
}

// Version returns the version reported by the most recent state probe.
func (b *Bridge) Version() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

func (b *Bridge) CheckConnectionStatus(ctx context.Context) (ConnectionStatus, error) {
	var resp connectionResponse
	if err := b.do(ctx, http.MethodGet, "/v1/connection", nil, &resp); err != nil {
		return "", err
	}
	if resp.Status == nil {
		return "", nil
	}
	return ConnectionStatus(*resp.Status), nil
}

func (b *Bridge) RequestConnection(ctx context.Context) (bool, error) {
	var resp approvalResponse
	if err := b.do(ctx, http.MethodPost, "/v1/connection", nil, &resp); err != nil {
		return false, err
	}
	return resp.Approved, nil
}

func (b *Bridge) Onramp(ctx context.Context, params onramp.Params) error {
	if params == nil {
		params = onramp.Params{}
	}
	return b.do(ctx, http.MethodPost, "/v1/onramp", params, nil)
}

func (b *Bridge) OpenInstallPage() error {
	if err := b.openURL(b.installURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", b.installURL, err)
	}
	return nil
}

// InstallURL is where OpenInstallPage sends the user.
func (b *Bridge) InstallURL() string {
	return b.installURL
}

func (b *Bridge) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		berr := &BridgeError{StatusCode: resp.StatusCode}
		var e errorResponse
		if raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); len(raw) > 0 {
			if json.Unmarshal(raw, &e) == nil && e.Error != "" {
				berr.Message = e.Error
			} else {
				berr.Message = strings.TrimSpace(string(raw))
			}
		}
		return berr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid bridge response: %w", err)
	}
	return nil
}
