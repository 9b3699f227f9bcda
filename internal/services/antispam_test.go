package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsHoneypotFilled(t *testing.T) {
	assert.False(t, IsHoneypotFilled(""))
	assert.False(t, IsHoneypotFilled("   "))
	assert.False(t, IsHoneypotFilled("\n\t"))
	assert.True(t, IsHoneypotFilled("http://spam.example"))
	assert.True(t, IsHoneypotFilled(" x "))
}

func TestIsFormTimingValid(t *testing.T) {
	now := time.Now()
	tsAgo := func(d time.Duration) string {
		return strconv.FormatInt(now.Add(-d).UnixMilli(), 10)
	}

	tests := []struct {
		name   string
		formTS string
		want   bool
	}{
		{"exactly at the 2s minimum", tsAgo(2000 * time.Millisecond), true},
		{"1ms too fast", tsAgo(1999 * time.Millisecond), false},
		{"comfortably inside the window", tsAgo(5 * time.Minute), true},
		{"exactly at the 60min maximum", tsAgo(3600000 * time.Millisecond), true},
		{"1ms too old", tsAgo(3600001 * time.Millisecond), false},
		{"rendered in the future", tsAgo(-10 * time.Second), false},
		{"not a number", "abc", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFormTimingValid(tt.formTS, now))
		})
	}
}

func TestIsFormTimingValidIgnoresSubMillisecond(t *testing.T) {
	// The wall clock virtually always sits between two millisecond ticks; a
	// form rendered exactly at a boundary must still land on the right side.
	base := int64(1_700_000_000_000)
	now := time.UnixMilli(base).Add(700 * time.Microsecond)

	atMax := strconv.FormatInt(base-3_600_000, 10)
	assert.True(t, IsFormTimingValid(atMax, now))

	atMin := strconv.FormatInt(base-2_000, 10)
	assert.True(t, IsFormTimingValid(atMin, now))

	pastMax := strconv.FormatInt(base-3_600_001, 10)
	assert.False(t, IsFormTimingValid(pastMax, now))
}

func TestCheckSpam(t *testing.T) {
	now := time.Now()
	okTS := strconv.FormatInt(now.Add(-10*time.Second).UnixMilli(), 10)

	assert.NoError(t, CheckSpam("", okTS, now))
	assert.ErrorIs(t, CheckSpam("http://spam.example", okTS, now), ErrSpamRejected)
	assert.ErrorIs(t, CheckSpam("", "0", now), ErrSpamRejected)

	// A filled honeypot wins even when the timing field is valid, and the
	// message never says which check tripped.
	err := CheckSpam("bot", okTS, now)
	assert.EqualError(t, err, "envio inválido")
}
