package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

// ErrOpen is the only error Open returns for a bad password or a damaged envelope.
var ErrOpen = errors.New("failed to open envelope")

// upper bound for N read from disk, so a crafted file cannot exhaust memory
const maxScryptN = 1 << 20

// Open decrypts an envelope produced by Seal.
// Every failure (decoding, parameters, authentication) collapses into ErrOpen.
// password must be []byte for security (caller should zero it after use)
func Open(env *model.Envelope, password []byte) ([]byte, error) {
	if env == nil || env.KDF != kdfScrypt {
		return nil, ErrOpen
	}
	if env.N <= 1 || env.N > maxScryptN || env.N&(env.N-1) != 0 || env.R <= 0 || env.P <= 0 {
		return nil, ErrOpen
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, ErrOpen
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonce) != nonceLen {
		return nil, ErrOpen
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.CipherText)
	if err != nil {
		return nil, ErrOpen
	}

	key, err := scrypt.Key(password, salt, env.N, env.R, env.P, scryptKeyLen)
	if err != nil {
		return nil, ErrOpen
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
