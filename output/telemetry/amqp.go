package telemetry

import (
	"context"
	"time"

	"github.com/Azure/go-amqp"
	"github.com/pkg/errors"
)

const closeTimeout = 5 * time.Second

// amqpLink is an open sender link to the hub's event endpoint.
type amqpLink interface {
	Send(ctx context.Context, payload []byte) error
	Close(ctx context.Context) error
}

// amqpDialer opens a link to target on host, authenticated with SASL PLAIN.
type amqpDialer func(ctx context.Context, host, username, password, target string) (amqpLink, error)

// amqpTransport keeps one AMQP link to the hub's event endpoint. The hub
// authenticates the connection with the SAS token given at dial time, so
// the link is rebuilt when the token is due for renewal or after a failed
// send. The first link is opened by the first send.
type amqpTransport struct {
	creds  Credentials
	tokens *tokenSource
	dial   amqpDialer

	link amqpLink
}

func newAMQPTransport(creds Credentials, tokens *tokenSource, dial amqpDialer) *amqpTransport {
	return &amqpTransport{creds: creds, tokens: tokens, dial: dial}
}

func (t *amqpTransport) username() string {
	return t.creds.DeviceID + "@sas." + t.creds.HubName
}

func (t *amqpTransport) target() string {
	return "/devices/" + t.creds.DeviceID + "/messages/events"
}

func (t *amqpTransport) connect(ctx context.Context) error {

	token, err := t.tokens.Token()
	if err != nil {
		return err
	}

	link, err := t.dial(ctx, t.creds.Host(), t.username(), token, t.target())
	if err != nil {
		return err
	}
	t.link = link
	return nil
}

func (t *amqpTransport) Send(ctx context.Context, payload []byte) error {

	if t.link != nil && !t.tokens.fresh() {
		_ = t.disconnect()
	}
	if t.link == nil {
		if err := t.connect(ctx); err != nil {
			return err
		}
	}

	if err := t.link.Send(ctx, payload); err != nil {
		_ = t.disconnect()
		return errors.Wrap(err, "amqp send")
	}
	return nil
}

func (t *amqpTransport) disconnect() error {
	if t.link == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := t.link.Close(ctx)
	t.link = nil
	return err
}

func (t *amqpTransport) Close() error {
	return t.disconnect()
}

// goAMQPLink is an amqpLink on github.com/Azure/go-amqp.
type goAMQPLink struct {
	conn    *amqp.Conn
	session *amqp.Session
	sender  *amqp.Sender
}

func dialGoAMQP(ctx context.Context, host, username, password, target string) (amqpLink, error) {

	conn, err := amqp.Dial(ctx, "amqps://"+host, &amqp.ConnOptions{
		SASLType: amqp.SASLTypePlain(username, password),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "amqp dial %s", host)
	}

	session, err := conn.NewSession(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "amqp session")
	}

	sender, err := session.NewSender(ctx, target, nil)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "amqp sender")
	}

	return &goAMQPLink{conn: conn, session: session, sender: sender}, nil
}

func (l *goAMQPLink) Send(ctx context.Context, payload []byte) error {
	return l.sender.Send(ctx, amqp.NewMessage(payload), nil)
}

func (l *goAMQPLink) Close(ctx context.Context) error {
	_ = l.sender.Close(ctx)
	_ = l.session.Close(ctx)
	return l.conn.Close()
}
