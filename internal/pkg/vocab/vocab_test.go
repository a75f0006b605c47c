package vocab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statusTable = NewTable("approval status", map[string][]string{
	"PENDING":  {"EN_ATTENTE"},
	"APPROVED": {"APPROUVE"},
	"REJECTED": {"REJETE"},
})

func TestTable_Normalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"PENDING", "PENDING"},
		{"pending", "PENDING"},
		{"  En_Attente ", "PENDING"},
		{"en attente", "PENDING"},
		{"en-attente", "PENDING"},
		{"APPROUVÉ", "APPROVED"},
		{"approuve", "APPROVED"},
		{"rejeté", "REJECTED"},
	}
	for _, c := range cases {
		got, err := statusTable.Normalize(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestTable_Normalize_Unknown(t *testing.T) {
	_, err := statusTable.Normalize("MAYBE")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownValue))

	var unknown *UnknownValueError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "approval status", unknown.Family)
	assert.Equal(t, "MAYBE", unknown.Value)
}

func TestTable_Equal(t *testing.T) {
	assert.True(t, statusTable.Equal("APPROVED", "approuvé"))
	assert.False(t, statusTable.Equal("APPROVED", "REJETE"))
	assert.False(t, statusTable.Equal("", ""))
}
