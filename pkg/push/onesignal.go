package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/khabarwire/khabar/pkg/domain"
)

// ErrNoCredentials is returned by OneSignal.Send when app id or rest key is missing
var ErrNoCredentials = errors.New("onesignal credentials are not set")

// OneSignal sends notifications with OneSignal REST API
type OneSignal struct {
	client     *resty.Client
	appID      string
	restKey    string
	segment    string
	retries    int
	retryDelay time.Duration
}

// OneSignalParams defines OneSignal client settings
type OneSignalParams struct {
	AppID    string
	RESTKey  string
	Endpoint string // api base, https://onesignal.com/api/v1 by default
	Segment  string // audience, All by default
	Timeout  time.Duration
	Retries  int // attempts on transient failures
}

type oneSignalRequest struct {
	AppID            string            `json:"app_id"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	IncludedSegments []string          `json:"included_segments"`
	URL              string            `json:"url,omitempty"`
	BigPicture       string            `json:"big_picture,omitempty"`
	ChromeWebImage   string            `json:"chrome_web_image,omitempty"`
	IOSAttachments   map[string]string `json:"ios_attachments,omitempty"`
	IdempotencyKey   string            `json:"idempotency_key,omitempty"`
}

type oneSignalResponse struct {
	ID         string          `json:"id"`
	Recipients int             `json:"recipients"`
	Errors     json.RawMessage `json:"errors"`
}

// NewOneSignal makes a OneSignal sender
func NewOneSignal(params OneSignalParams) *OneSignal {
	if params.Endpoint == "" {
		params.Endpoint = "https://onesignal.com/api/v1"
	}
	if params.Segment == "" {
		params.Segment = "All"
	}
	if params.Timeout <= 0 {
		params.Timeout = 10 * time.Second
	}
	if params.Retries <= 0 {
		params.Retries = 3
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(params.Endpoint, "/")).
		SetTimeout(params.Timeout).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetHeader("Accept", "application/json")

	return &OneSignal{
		client:     client,
		appID:      params.AppID,
		restKey:    params.RESTKey,
		segment:    params.Segment,
		retries:    params.Retries,
		retryDelay: 200 * time.Millisecond,
	}
}

// Send creates a notification for the configured segment. 5xx and 429 responses are retried,
// other failures are returned right away. A notification with ID carries an idempotency key derived
// from it, so OneSignal drops repeated attempts and any network error is retried. Without ID only
// failures before the request was sent (dial, dns) are retried, a lost response may mean delivered.
func (o *OneSignal) Send(ctx context.Context, n domain.Notification) (string, error) {
	if o.appID == "" || o.restKey == "" {
		return "", ErrNoCredentials
	}

	req := oneSignalRequest{
		AppID:            o.appID,
		Headings:         map[string]string{"en": n.Title},
		Contents:         map[string]string{"en": n.Body},
		IncludedSegments: []string{o.segment},
		URL:              n.URL,
		IdempotencyKey:   idempotencyKey(n.ID),
	}
	if n.Image != "" {
		req.BigPicture, req.ChromeWebImage = n.Image, n.Image
		req.IOSAttachments = map[string]string{"id1": n.Image}
	}

	var id string
	var permanent error
	retrier := repeater.NewBackoff(o.retries, o.retryDelay, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		res, err := o.post(ctx, req)
		if err == nil {
			id = res
			return nil
		}
		var te *transientError
		if errors.As(err, &te) {
			lgr.Printf("[DEBUG] onesignal transient failure, retrying: %v", err)
			return err
		}
		permanent = err
		return nil // stop retrying
	})
	if permanent != nil {
		return "", permanent
	}
	if err != nil {
		return "", fmt.Errorf("onesignal send: %w", err)
	}
	return id, nil
}

// transientError marks failures worth another attempt
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func (o *OneSignal) post(ctx context.Context, req oneSignalRequest) (string, error) {
	var result oneSignalResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+o.restKey).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/notifications")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		err = fmt.Errorf("post notification: %w", err)
		if req.IdempotencyKey != "" || notSent(err) {
			return "", &transientError{err: err}
		}
		return "", err
	}

	status := resp.StatusCode()
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return "", &transientError{err: fmt.Errorf("onesignal status %d: %s", status, errorsText(result.Errors, resp.String()))}
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("onesignal status %d: %s", status, errorsText(result.Errors, resp.String()))
	}
	if result.ID == "" {
		return "", fmt.Errorf("onesignal rejected notification: %s", errorsText(result.Errors, resp.String()))
	}
	return result.ID, nil
}

// idempotencyKey makes a stable uuid from the notification id, empty for empty id
func idempotencyKey(id string) string {
	if id == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("khabar:"+id)).String()
}

// notSent reports if the request failed before reaching the provider
func notSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// errorsText returns provider errors, or the raw body if there are none
func errorsText(errs json.RawMessage, body string) string {
	if len(errs) > 0 && string(errs) != "null" {
		return string(errs)
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(body)
}
