package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/angas/junegloom/climate"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done bool
	err  error
}

func (t *fakeToken) Wait() bool                     { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient only implements what Publisher uses.
type fakeClient struct {
	mqtt.Client
	token *fakeToken
	sent  []published
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload any) mqtt.Token {
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func TestNoticeFrom(t *testing.T) {
	ds := climate.Build(&climate.Input{
		Checksum: "abc",
		Cities:   []climate.RawCityRecord{{City: "Malibu"}, {City: "Irvine"}},
	}, nil)

	n := NoticeFrom(ds)
	assert.Equal(t, ds.ID, n.Id)
	assert.Equal(t, "abc", n.Checksum)
	assert.Equal(t, 2, n.Cities, "the Santa Monica alias is not counted")
}

func TestPublish(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: true}}
	p := newPublisher(client, "junegloom/dataset", slog.New(slog.DiscardHandler))

	require.NoError(t, p.Publish(Notice{Id: "b1", RealDays: 4, Cities: 3}))

	require.Len(t, client.sent, 1)
	sent := client.sent[0]
	assert.Equal(t, "junegloom/dataset", sent.topic)
	assert.Equal(t, byte(1), sent.qos)
	assert.True(t, sent.retained)

	var n Notice
	require.NoError(t, json.Unmarshal(sent.payload, &n))
	assert.Equal(t, "b1", n.Id)
	assert.Equal(t, 4, n.RealDays)
}

func TestPublishErrors(t *testing.T) {
	timeout := newPublisher(&fakeClient{token: &fakeToken{}}, "t", slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, timeout.Publish(Notice{}), ErrPublishTimeout)

	broken := errors.New("not connected")
	failing := newPublisher(&fakeClient{token: &fakeToken{done: true, err: broken}}, "t", slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, failing.Publish(Notice{}), broken)
}

func TestMqttLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newMqttLogger(slog.New(slog.NewTextHandler(&buf, nil)), slog.LevelWarn)

	l.Println("connection", "lost")
	l.Printf("retry in %ds", 5)

	assert.Contains(t, buf.String(), `level=WARN msg="connection lost"`)
	assert.Contains(t, buf.String(), `msg="retry in 5s"`)
}
