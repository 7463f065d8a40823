package vault

import (
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/model"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Session is the unlocked, in-memory form of the wallet.
// It is never persisted and its secret is wiped when the vault locks.
type Session struct {
	id         string
	address    common.Address
	unlockedAt time.Time

	mu     sync.RWMutex
	secret []byte // 0x-prefixed hex text
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Address() common.Address { return s.address }
func (s *Session) UnlockedAt() time.Time   { return s.unlockedAt }

// Secret returns the plaintext secret, or "" once the session is closed.
func (s *Session) Secret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.secret)
}

// Closed reports whether the session has been wiped.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret == nil
}

// PrivateKey parses the secret into a signing key.
func (s *Session) PrivateKey() (*ecdsa.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.secret == nil {
		return nil, model.ErrLocked
	}
	return ethcrypto.HexToECDSA(string(s.secret[2:]))
}

// Info is the loggable, serializable view of the session.
func (s *Session) Info() model.SessionInfo {
	return model.SessionInfo{
		ID:         s.id,
		Address:    s.address.Hex(),
		UnlockedAt: s.unlockedAt,
	}
}

func (s *Session) wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.secret)
	s.secret = nil
}
