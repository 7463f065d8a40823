package crypto

import (
	"testing"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{N: 1 << 10, R: 8, P: 1}

func TestSealOpen(t *testing.T) {
	secret := []byte("0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")

	env, err := Seal(secret, []byte("pw-correct"), testParams)
	require.NoError(t, err)
	assert.Equal(t, "scrypt", env.KDF)
	assert.Equal(t, 1<<10, env.N)

	got, err := Open(env, []byte("pw-correct"))
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestOpenWrongPassword(t *testing.T) {
	env, err := Seal([]byte("secret"), []byte("pw-correct"), testParams)
	require.NoError(t, err)

	_, err = Open(env, []byte("pw-wrong"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenDamagedEnvelope(t *testing.T) {
	env, err := Seal([]byte("secret"), []byte("pw"), testParams)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(e *model.Envelope)
	}{
		{"bad salt", func(e *model.Envelope) { e.Salt = "%%%" }},
		{"bad nonce", func(e *model.Envelope) { e.Nonce = "AAAA" }},
		{"bad ciphertext", func(e *model.Envelope) { e.CipherText = "AAAAAAAAAAAAAAAAAAAAAAAA" }},
		{"huge N", func(e *model.Envelope) { e.N = 1 << 30 }},
		{"N not power of two", func(e *model.Envelope) { e.N = 1000 }},
		{"unknown kdf", func(e *model.Envelope) { e.KDF = "pbkdf2" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			damaged := *env
			tt.mutate(&damaged)

			_, err := Open(&damaged, []byte("pw"))
			assert.ErrorIs(t, err, ErrOpen)
		})
	}

	_, err = Open(nil, []byte("pw"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSealUsesFreshSaltAndNonce(t *testing.T) {
	a, err := Seal([]byte("same"), []byte("pw"), testParams)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), []byte("pw"), testParams)
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.CipherText, b.CipherText)
}
