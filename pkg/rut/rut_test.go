package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	cases := map[string]string{
		"12345678": "5",
		"11111111": "1",
		"10000013": "K",
		"31":       "0",
	}
	for body, want := range cases {
		got, ok := CheckDigit(body)
		require.True(t, ok, body)
		assert.Equal(t, want, got, body)
	}

	_, ok := CheckDigit("12a4")
	assert.False(t, ok)
	_, ok = CheckDigit("")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	valid := []string{"12.345.678-5", "123456785", "10.000.013-k", "10000013K", "31-0", " 11.111.111-1 "}
	for _, in := range valid {
		assert.True(t, Validate(in), in)
	}

	invalid := []string{"12.345.678-4", "12345678-K", "", "5", "-", "abc", "1K2-3",
		"12345678-5X", "ABC12.345.678-5", "12345678-Z5"}
	for _, in := range invalid {
		assert.False(t, Validate(in), in)
	}
}

func TestFormat(t *testing.T) {
	out, err := Format("123456785")
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", out)

	out, err = Format("10000013k")
	require.NoError(t, err)
	assert.Equal(t, "10.000.013-K", out)

	out, err = Format("31-0")
	require.NoError(t, err)
	assert.Equal(t, "31-0", out)

	_, err = Format("12345678-9")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "12345678K", Clean("12.345.678-k"))
	assert.Equal(t, "", Clean("--.."))
	assert.Equal(t, "ABC123456785", Clean("abc12.345.678-5"))
}
