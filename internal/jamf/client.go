package jamf

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mosen/jamfsync/internal/api"
	"github.com/mosen/jamfsync/internal/logger"
	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client speaks the server's XML resource API.
type Client struct {
	base     *url.URL
	username string
	password string
	http     *http.Client
	log      *logger.Logger
}

var _ api.Client = (*Client)(nil)

// NewClient constructs a Client from explicit connection settings.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, jamferrors.NewValidationError(cfg.URL, "url", "invalid server URL", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport
	if !cfg.VerifySSL() {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		base:     base,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
		log:      log,
	}, nil
}

// Get fetches the named object; absence is reported via found == false.
func (c *Client) Get(ctx context.Context, kind object.Kind, name string) (*object.ManagedObject, bool, error) {
	body, status, err := c.do(ctx, http.MethodGet, resourcePath(kind, name), nil)
	if err != nil {
		return nil, false, c.classify(kind, name, "get", status, err)
	}
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	if status != http.StatusOK {
		return nil, false, c.classify(kind, name, "get", status, nil)
	}

	obj, err := decodeObject(kind, name, body)
	if err != nil {
		return nil, false, jamferrors.NewAdapterError(string(kind), name, "get", jamferrors.Permanent, err)
	}
	return obj, true, nil
}

// Create materializes a new object from its full desired field set.
func (c *Client) Create(ctx context.Context, desired *object.ManagedObject) error {
	payload, err := encodeCreate(desired)
	if err != nil {
		return jamferrors.NewAdapterError(string(desired.Kind), desired.Name, "create", jamferrors.Permanent, err)
	}

	_, status, doErr := c.do(ctx, http.MethodPost, resourcePath(desired.Kind, desired.Name), payload)
	if doErr != nil || !success(status) {
		return c.classify(desired.Kind, desired.Name, "create", status, doErr)
	}
	return nil
}

// Update sends only the changed fields for an existing object.
func (c *Client) Update(ctx context.Context, kind object.Kind, name string, diffs []model.FieldDiff) error {
	payload, err := encodeUpdate(kind, diffs)
	if err != nil {
		return jamferrors.NewAdapterError(string(kind), name, "update", jamferrors.Permanent, err)
	}

	_, status, doErr := c.do(ctx, http.MethodPut, resourcePath(kind, name), payload)
	if doErr != nil || !success(status) {
		return c.classify(kind, name, "update", status, doErr)
	}
	return nil
}

// Delete removes the named object.
func (c *Client) Delete(ctx context.Context, kind object.Kind, name string) error {
	_, status, err := c.do(ctx, http.MethodDelete, resourcePath(kind, name), nil)
	if err != nil || !success(status) {
		return c.classify(kind, name, "delete", status, err)
	}
	return nil
}

// Exists probes a soft-reference target without decoding it.
func (c *Client) Exists(ctx context.Context, kind object.Kind, name string) (bool, error) {
	_, status, err := c.do(ctx, http.MethodGet, resourcePath(kind, name), nil)
	if err != nil {
		return false, c.classify(kind, name, "exists", status, err)
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, c.classify(kind, name, "exists", status, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	endpoint := *c.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, 0, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/xml")
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	c.log.WithFields(map[string]any{"method": method, "path": path}).Debug("server request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// classify maps transport and HTTP failures onto the retry taxonomy:
// network errors and 5xx are transient, everything else is permanent.
func (c *Client) classify(kind object.Kind, name, op string, status int, err error) error {
	class := jamferrors.Permanent
	switch {
	case err != nil:
		class = jamferrors.Transient
		var urlErr *url.Error
		if errors.As(err, &urlErr) && !urlErr.Timeout() && !urlErr.Temporary() {
			// Keep DNS and TLS handshake problems retryable too; only a
			// context cancellation is clearly final.
			if errors.Is(err, context.Canceled) {
				class = jamferrors.Permanent
			}
		}
	case status >= 500:
		class = jamferrors.Transient
		err = fmt.Errorf("server returned status %d", status)
	default:
		err = fmt.Errorf("server returned status %d", status)
	}

	return jamferrors.NewAdapterError(string(kind), name, op, class, err)
}
