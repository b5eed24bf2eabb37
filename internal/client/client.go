// Package client calls the remote services the enrollment orchestrator
// depends on.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/middleware/requestid"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// Observer receives the outcome of every remote call.
type Observer interface {
	ObserveUpstreamCall(service string, status int, duration time.Duration)
}

// lookup performs a single GET {baseURL}/{id} against one remote resource.
type lookup struct {
	service  string
	keyLabel string
	baseURL  string
	client   *http.Client
	observer Observer
}

func newLookup(service, keyLabel, baseURL string, timeout time.Duration, observer Observer) lookup {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return lookup{
		service:  service,
		keyLabel: keyLabel,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		observer: observer,
	}
}

// fetch decodes the remote representation of id into a T. Missing entities map
// to NotFound, rejected identifiers to InvalidInput, anything else to an
// upstream error.
func fetch[T any](ctx context.Context, l lookup, id string) (*T, error) {
	endpoint := l.baseURL + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		l.observe(0, time.Since(start))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status,
			fmt.Sprintf("%s service unavailable", l.service))
	}
	defer resp.Body.Close()
	l.observe(resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, appErrors.NotFound(fmt.Sprintf("%s not found: %s", l.keyLabel, id))
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, appErrors.InvalidInput(fmt.Sprintf("%s invalid: %s", l.keyLabel, id))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, appErrors.Wrap(fmt.Errorf("%s returned status %d", l.service, resp.StatusCode),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}

	var out T
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, appErrors.Wrap(fmt.Errorf("decode %s response: %w", l.service, err),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	return &out, nil
}

func (l lookup) observe(status int, duration time.Duration) {
	if l.observer != nil {
		l.observer.ObserveUpstreamCall(l.service, status, duration)
	}
}
