package fanout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signpost-app/signpost/internal/apperr"
)

type sendCall struct {
	to string
	cc []string
}

func recordingSend(calls *[]sendCall) SendFunc {
	return func(to string, cc []string) error {
		*calls = append(*calls, sendCall{to: to, cc: cc})
		return nil
	}
}

func TestParseConfigCurrentShape(t *testing.T) {
	cfg := ParseConfig(`{"entries":[{"email":"a@x.example","enabled":true},{"email":"b@x.example","enabled":false}],"multiSendMode":"single"}`)

	assert.Equal(t, ModeSingle, cfg.Mode)
	require.Len(t, cfg.Entries, 2)
	assert.Equal(t, "a@x.example", cfg.Entries[0].Email)
	assert.False(t, cfg.Entries[1].Enabled)
}

func TestParseConfigLegacyArray(t *testing.T) {
	cfg := ParseConfig(`[{"email":"a@x.example","enabled":true},{"email":"b@x.example","enabled":true}]`)

	assert.Equal(t, ModeMultiple, cfg.Mode)
	assert.Len(t, cfg.Entries, 2)
}

func TestParseConfigPlainString(t *testing.T) {
	cfg := ParseConfig("old@x.example")

	assert.Equal(t, ModeMultiple, cfg.Mode)
	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, "old@x.example", cfg.Entries[0].Email)
	assert.True(t, cfg.Entries[0].Enabled)
}

func TestParseConfigUnknownModeDefaultsToMultiple(t *testing.T) {
	cfg := ParseConfig(`{"entries":[{"email":"a@x.example","enabled":true}],"multiSendMode":"broadcast"}`)

	assert.Equal(t, ModeMultiple, cfg.Mode)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg := ParseConfig("")

	assert.Empty(t, cfg.Entries)
	assert.Equal(t, ModeMultiple, cfg.Mode)
}

func TestActiveFiltersAndKeepsOrder(t *testing.T) {
	entries := []ReceiverEntry{
		{Email: "a@x.example", Enabled: true},
		{Email: "skip@x.example", Enabled: false},
		{Email: "  ", Enabled: true},
		{Email: "b@x.example", Enabled: true},
	}

	assert.Equal(t, []string{"a@x.example", "b@x.example"}, Active(entries))
}

func TestDispatchSingleMode(t *testing.T) {
	entries := []ReceiverEntry{
		{Email: "a@x.example", Enabled: true},
		{Email: "b@x.example", Enabled: true},
		{Email: "c@x.example", Enabled: true},
	}

	var calls []sendCall
	require.NoError(t, Dispatch(entries, ModeSingle, recordingSend(&calls)))

	require.Len(t, calls, 1)
	assert.Equal(t, "a@x.example", calls[0].to)
	assert.Equal(t, []string{"b@x.example", "c@x.example"}, calls[0].cc)
}

func TestDispatchMultipleMode(t *testing.T) {
	entries := []ReceiverEntry{
		{Email: "a@x.example", Enabled: true},
		{Email: "b@x.example", Enabled: true},
	}

	var calls []sendCall
	require.NoError(t, Dispatch(entries, ModeMultiple, recordingSend(&calls)))

	require.Len(t, calls, 2)
	assert.Equal(t, "a@x.example", calls[0].to)
	assert.Empty(t, calls[0].cc)
	assert.Equal(t, "b@x.example", calls[1].to)
}

func TestDispatchSingleReceiverModesAgree(t *testing.T) {
	entries := []ReceiverEntry{{Email: "only@x.example", Enabled: true}}

	for _, mode := range []Mode{ModeSingle, ModeMultiple} {
		var calls []sendCall
		require.NoError(t, Dispatch(entries, mode, recordingSend(&calls)))
		require.Len(t, calls, 1)
		assert.Equal(t, "only@x.example", calls[0].to)
		assert.Empty(t, calls[0].cc)
	}
}

func TestDispatchAbortsOnFirstError(t *testing.T) {
	entries := []ReceiverEntry{
		{Email: "a@x.example", Enabled: true},
		{Email: "b@x.example", Enabled: true},
		{Email: "c@x.example", Enabled: true},
	}

	boom := errors.New("provider down")
	var sent []string
	err := Dispatch(entries, ModeMultiple, func(to string, cc []string) error {
		if to == "b@x.example" {
			return boom
		}
		sent = append(sent, to)
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a@x.example"}, sent)
}

func TestDispatchNoReceivers(t *testing.T) {
	entries := []ReceiverEntry{{Email: "off@x.example", Enabled: false}}

	err := Dispatch(entries, ModeMultiple, recordingSend(&[]sendCall{}))

	var configErr *apperr.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "no receivers", configErr.Msg)
}
