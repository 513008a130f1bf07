package telemetry

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Credentials identify a device on a hub.
type Credentials struct {
	HubName   string
	HubSuffix string
	DeviceID  string
	// DeviceKey is the base64 symmetric key of the device.
	DeviceKey string
}

// Host is the hub's DNS name.
func (c Credentials) Host() string {
	return c.HubName + "." + c.HubSuffix
}

func (c Credentials) resource() string {
	return c.Host() + "/devices/" + c.DeviceID
}

// SharedAccessSignature signs resource with key until expiry.
func SharedAccessSignature(resource, key string, expiry time.Time) (string, error) {
	k, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return "", errors.Wrap(err, errBadDeviceKey)
	}

	sr := url.QueryEscape(resource)
	se := strconv.FormatInt(expiry.Unix(), 10)

	mac := hmac.New(sha256.New, k)
	mac.Write([]byte(sr + "\n" + se))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SharedAccessSignature sr=%s&sig=%s&se=%s", sr, url.QueryEscape(sig), se), nil
}

// tokenSource hands out SAS tokens and renews them in the last tenth of
// their lifetime.
type tokenSource struct {
	creds Credentials
	ttl   time.Duration
	now   func() time.Time

	token  string
	expiry time.Time
}

func newTokenSource(creds Credentials, ttl time.Duration) *tokenSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenSource{creds: creds, ttl: ttl, now: time.Now}
}

// fresh reports whether the cached token is still good to use.
func (t *tokenSource) fresh() bool {
	return t.token != "" && t.now().Before(t.expiry.Add(-t.ttl/10))
}

func (t *tokenSource) Token() (string, error) {
	if t.fresh() {
		return t.token, nil
	}
	expiry := t.now().Add(t.ttl)
	token, err := SharedAccessSignature(t.creds.resource(), t.creds.DeviceKey, expiry)
	if err != nil {
		return "", err
	}
	t.token, t.expiry = token, expiry
	return token, nil
}
