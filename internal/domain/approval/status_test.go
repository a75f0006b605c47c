package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_Bilingual(t *testing.T) {
	cases := map[string]Status{
		"PENDING":    StatusPending,
		"en_attente": StatusPending,
		"Approuvé":   StatusApproved,
		"APPROVED":   StatusApproved,
		"rejete":     StatusRejected,
	}
	for input, want := range cases {
		got, err := ParseStatus(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseStatus("CANCELLED")
	assert.Error(t, err)
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(StatusPending))
	assert.ErrorIs(t, CheckTransition(StatusApproved), ErrAlreadyDecided)
	assert.ErrorIs(t, CheckTransition(StatusRejected), ErrAlreadyDecided)
}

func TestCheckEditable(t *testing.T) {
	assert.NoError(t, CheckEditable(StatusPending))
	assert.ErrorIs(t, CheckEditable(StatusApproved), ErrImmutableState)
}

func TestNewDecision(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))

	d, err := NewDecision(StatusApproved, "mgr-1", at, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.DecidedAt.Location())

	_, err = NewDecision(StatusPending, "mgr-1", at, nil)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
