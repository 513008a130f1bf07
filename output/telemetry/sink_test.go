package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/doingharm/gamepad-relay/controller"
)

func testCredentials() Credentials {
	return Credentials{
		HubName:   "myhub",
		HubSuffix: "azure-devices.net",
		DeviceID:  "dev1",
		DeviceKey: "c2VjcmV0",
	}
}

type fakeTransport struct {
	sent   [][]byte
	err    error
	closed bool
}

func (f *fakeTransport) Send(ctx context.Context, payload []byte) error {
	f.sent = append(f.sent, payload)
	return f.err
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestDispatchSendsOneMessage(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSink(tr, "dev1", "1.0", nil)

	snap := controller.Snapshot{Axes: []int16{15000, -300, 7}}
	snap.Buttons[controller.A] = true
	snap.Buttons[controller.Back] = true

	if err := s.Dispatch(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(tr.sent))
	}

	var got map[string]interface{}
	if err := json.Unmarshal(tr.sent[0], &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"DeviceId":    "dev1",
		"Buttons":     float64(0x81),
		"RightAnalog": float64(15000),
		"LeftAnalog":  float64(-300),
	}
	if len(got) != len(want) {
		t.Errorf("unexpected fields %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, got[k])
		}
	}
}

func TestDispatchWrapsTransportErrors(t *testing.T) {
	tr := &fakeTransport{err: errors.New("link detached")}
	s := NewSink(tr, "dev1", "1.0", nil)

	err := s.Dispatch(context.Background(), controller.Snapshot{Axes: []int16{0, 0}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %v", err)
	}
	if len(tr.sent) != 1 {
		t.Errorf("expected no retry, got %d sends", len(tr.sent))
	}
}

func TestAnnounce(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSink(tr, "dev1", "1.0", nil)

	if err := s.Announce(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := `{"ObjectType":"DeviceInfo","IsSimulatedDevice":false,"Version":"1.0",` +
		`"DeviceProperties":{"DeviceID":"dev1","HubEnabledState":true}}`
	if len(tr.sent) != 1 || string(tr.sent[0]) != want {
		t.Errorf("unexpected device info %q", tr.sent)
	}

	_ = s.Close()
	if !tr.closed {
		t.Error("transport not closed")
	}
}

func TestHTTPTransport(t *testing.T) {
	var (
		gotPath, gotQuery, gotAuth, gotType, gotBody string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	creds := testCredentials()
	tr := newHTTPTransport(srv.URL, creds, newTokenSource(creds, time.Hour), srv.Client())
	defer tr.Close()

	if err := tr.Send(context.Background(), []byte(`{"Buttons":1}`)); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/devices/dev1/messages/events" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotQuery != "api-version="+apiVersion {
		t.Errorf("unexpected query %s", gotQuery)
	}
	if !strings.HasPrefix(gotAuth, "SharedAccessSignature sr=myhub.azure-devices.net%2Fdevices%2Fdev1&sig=") {
		t.Errorf("unexpected authorization %s", gotAuth)
	}
	if !strings.HasPrefix(gotType, "application/json") {
		t.Errorf("unexpected content type %s", gotType)
	}
	if gotBody != `{"Buttons":1}` {
		t.Errorf("unexpected body %s", gotBody)
	}
}

func TestHTTPTransportStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := testCredentials()
	tr := newHTTPTransport(srv.URL, creds, newTokenSource(creds, time.Hour), srv.Client())

	err := tr.Send(context.Background(), []byte(`{}`))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}

	_ = tr.Close()
	if err = tr.Send(context.Background(), []byte(`{}`)); err == nil {
		t.Error("expected error after close")
	}
}

func TestNewTransport(t *testing.T) {
	if _, err := NewTransport("mqtt", Options{}); err == nil {
		t.Error("expected error for unknown transport")
	}
	tr, err := NewTransport(TransportLog, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err = tr.Send(context.Background(), []byte("{}")); err != nil {
		t.Error(err)
	}
}
