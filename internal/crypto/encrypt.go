package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// N=2^18 (~256MB RAM, 0.5-2s) keeps brute force expensive while still
	// fitting in the memory budget of a desktop or phone process.
	DefaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	kdfScrypt = "scrypt"
)

// Params are the scrypt cost parameters written into every envelope.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams returns the production cost parameters.
func DefaultParams() Params {
	return Params{N: DefaultScryptN, R: scryptR, P: scryptP}
}

// Seal encrypts plaintext with a key derived from password (scrypt + AES-256-GCM).
// password must be []byte for security (caller should zero it after use)
func Seal(plaintext, password []byte, params Params) (*model.Envelope, error) {
	if params.N == 0 {
		params = DefaultParams()
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return &model.Envelope{
		KDF:        kdfScrypt,
		N:          params.N,
		R:          params.R,
		P:          params.P,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
