package telemetry

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const apiVersion = "2020-03-13"

// httpTransport posts device-to-cloud messages to the hub's REST endpoint.
type httpTransport struct {
	client *http.Client
	url    string
	tokens *tokenSource
}

func newHTTPTransport(baseURL string, creds Credentials, tokens *tokenSource, client *http.Client) *httpTransport {
	return &httpTransport{
		client: client,
		url:    baseURL + "/devices/" + url.PathEscape(creds.DeviceID) + "/messages/events?api-version=" + apiVersion,
		tokens: tokens,
	}
}

func (t *httpTransport) Send(ctx context.Context, payload []byte) error {
	if t.client == nil {
		return errors.New(errClosed)
	}

	token, err := t.tokens.Token()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post event")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf(errStatus, resp.Status)
	}
	return nil
}

func (t *httpTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
		t.client = nil
	}
	return nil
}
