package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamConfig_Subject(t *testing.T) {
	c := StreamConfig{Name: "INTENTS", SubjectRoot: "intents"}
	assert.Equal(t, "intents.intent_parsed", c.Subject("INTENT_PARSED"))
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	h := nats.Header{}
	h.Set("Event-Type", "INTENT_PARSED")
	h.Set("Occurred-At", at.Format(time.RFC3339Nano))

	evt, err := DecodeEvent("intents.intent_parsed", h, []byte(`{"action":"focus"}`))
	require.NoError(t, err)
	assert.Equal(t, "INTENT_PARSED", evt.EventType())
	assert.Equal(t, "focus", evt.Payload()["action"])
	assert.True(t, at.Equal(evt.Timestamp()))

	evt, err = DecodeEvent("intents.other", nats.Header{}, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "intents.other", evt.EventType())

	_, err = DecodeEvent("x", nats.Header{}, []byte(`not json`))
	assert.Error(t, err)
}
