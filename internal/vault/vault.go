package vault

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/monitor"
	"github.com/AlexZinkM/evm-wallet/internal/storage"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CredentialKey is the storage key of the encrypted credential.
const CredentialKey = "walletInfo"

const minPasswordLen = 8

var (
	secretPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// Option configures a Vault.
type Option func(*Vault)

// WithParams sets the scrypt cost used for new credentials.
func WithParams(p crypto.Params) Option {
	return func(v *Vault) { v.params = p }
}

// WithIdleTimeout locks the session after d without Touch. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(v *Vault) { v.idle = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(v *Vault) { v.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// Vault owns the encrypted credential and the unlocked session.
type Vault struct {
	store  storage.Store
	params crypto.Params
	idle   time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	session *Session
	timer   *time.Timer
	onLock  []func()
}

func New(store storage.Store, opts ...Option) *Vault {
	v := &Vault{
		store:  store,
		params: crypto.DefaultParams(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidatePassword enforces the minimum password policy for new credentials.
func ValidatePassword(password []byte) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters long", model.ErrValidation, minPasswordLen)
	}
	return nil
}

// ValidSecret reports whether s has the canonical secret shape.
func ValidSecret(s string) bool {
	return secretPattern.MatchString(s)
}

// Create generates a new secret, persists it encrypted with password and unlocks it.
func (v *Vault) Create(ctx context.Context, password []byte) (*model.Credential, *Session, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key: %w", err)
	}

	secret := []byte("0x" + hex.EncodeToString(ethcrypto.FromECDSA(key)))
	defer clear(secret)

	address := ethcrypto.PubkeyToAddress(key.PublicKey)
	cred, err := v.persist(ctx, address, secret, password)
	if err != nil {
		return nil, nil, err
	}

	v.logger.Info("wallet created", zap.String("address", cred.Address))
	return cred, v.startSession(address, secret), nil
}

// Import validates secretText, persists it encrypted with password and unlocks it.
func (v *Vault) Import(ctx context.Context, secretText string, password []byte) (*model.Credential, *Session, error) {
	trimmed := strings.TrimSpace(secretText)
	if !ValidSecret(trimmed) {
		return nil, nil, fmt.Errorf("%w: invalid private key format", model.ErrValidation)
	}

	key, err := ethcrypto.HexToECDSA(trimmed[2:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid private key", model.ErrValidation)
	}

	secret := []byte(trimmed)
	defer clear(secret)

	address := ethcrypto.PubkeyToAddress(key.PublicKey)
	cred, err := v.persist(ctx, address, secret, password)
	if err != nil {
		return nil, nil, err
	}

	v.logger.Info("wallet imported", zap.String("address", cred.Address))
	return cred, v.startSession(address, secret), nil
}

func (v *Vault) persist(ctx context.Context, address common.Address, secret, password []byte) (*model.Credential, error) {
	if _, err := v.store.Get(ctx, CredentialKey); err == nil {
		return nil, model.ErrCredentialExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	env, err := crypto.Seal(secret, password, v.params)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	cred := &model.Credential{
		Address:         address.Hex(),
		EncryptedSecret: *env,
		CreatedAt:       v.now().UTC().Format(time.RFC3339),
	}
	if err := v.save(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

func (v *Vault) save(ctx context.Context, cred *model.Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := v.store.Set(ctx, CredentialKey, data); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Credential loads the persisted credential.
func (v *Vault) Credential(ctx context.Context) (*model.Credential, error) {
	data, err := v.store.Get(ctx, CredentialKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, model.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &cred, nil
}

// OpenCredential decrypts cred with password and returns the secret text.
// Any failure, including a decrypted value of the wrong shape, is model.ErrAuth.
func OpenCredential(cred *model.Credential, password []byte) ([]byte, common.Address, error) {
	plaintext, err := crypto.Open(&cred.EncryptedSecret, password)
	if err != nil {
		return nil, common.Address{}, model.ErrAuth
	}

	if !secretPattern.Match(plaintext) {
		clear(plaintext)
		return nil, common.Address{}, model.ErrAuth
	}

	key, err := ethcrypto.HexToECDSA(string(plaintext[2:]))
	if err != nil {
		clear(plaintext)
		return nil, common.Address{}, model.ErrAuth
	}

	address := ethcrypto.PubkeyToAddress(key.PublicKey)
	if !strings.EqualFold(address.Hex(), cred.Address) {
		clear(plaintext)
		return nil, common.Address{}, model.ErrAuth
	}
	return plaintext, address, nil
}

// Unlock decrypts the stored credential and starts a new session.
func (v *Vault) Unlock(ctx context.Context, password []byte) (*Session, error) {
	cred, err := v.Credential(ctx)
	if errors.Is(err, model.ErrNoCredential) {
		return nil, err
	}
	if err != nil {
		// an unreadable blob is indistinguishable from a wrong password
		v.logger.Warn("unlock failed", zap.Error(err))
		monitor.Wallet.Unlock(false)
		return nil, model.ErrAuth
	}

	secret, address, err := OpenCredential(cred, password)
	if err != nil {
		v.logger.Info("unlock rejected", zap.String("address", cred.Address))
		monitor.Wallet.Unlock(false)
		return nil, err
	}
	defer clear(secret)

	v.logger.Info("wallet unlocked", zap.String("address", address.Hex()))
	monitor.Wallet.Unlock(true)
	return v.startSession(address, secret), nil
}

func (v *Vault) startSession(address common.Address, secret []byte) *Session {
	s := &Session{
		id:         uuid.NewString(),
		address:    address,
		unlockedAt: v.now(),
		secret:     append([]byte(nil), secret...),
	}

	v.mu.Lock()
	old := v.session
	v.session = s
	v.resetTimerLocked()
	hooks := v.hooksLocked(old != nil)
	v.mu.Unlock()

	if old != nil {
		old.wipe()
	}
	for _, fn := range hooks {
		fn()
	}
	return s
}

// Session returns the unlocked session or model.ErrLocked.
func (v *Vault) Session() (*Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return nil, model.ErrLocked
	}
	return v.session, nil
}

// IsCurrent reports whether id is the live session.
func (v *Vault) IsCurrent(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session != nil && v.session.id == id
}

// Touch pushes back the idle timeout of the current session.
func (v *Vault) Touch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.session != nil {
		v.resetTimerLocked()
	}
}

// OnLock registers fn to run whenever a session ends (lock, reset, expiry, replacement).
func (v *Vault) OnLock(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLock = append(v.onLock, fn)
}

// Lock wipes the session secret. The credential is untouched.
func (v *Vault) Lock() {
	v.lock("")
}

func (v *Vault) lock(onlyID string) {
	v.mu.Lock()
	s := v.session
	if s == nil || (onlyID != "" && s.id != onlyID) {
		v.mu.Unlock()
		return
	}
	v.session = nil
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	hooks := v.hooksLocked(true)
	v.mu.Unlock()

	s.wipe()
	v.logger.Info("wallet locked", zap.String("session", s.id))
	for _, fn := range hooks {
		fn()
	}
}

// Reset wipes the session and erases the persisted credential.
func (v *Vault) Reset(ctx context.Context) error {
	v.Lock()
	if err := v.store.Remove(ctx, CredentialKey); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	v.logger.Info("wallet reset")
	return nil
}

// ExportSecret re-checks password and returns the plaintext secret.
func (v *Vault) ExportSecret(ctx context.Context, password []byte) (string, error) {
	cred, err := v.Credential(ctx)
	if errors.Is(err, model.ErrNoCredential) {
		return "", err
	}
	if err != nil {
		return "", model.ErrAuth
	}

	secret, _, err := OpenCredential(cred, password)
	if err != nil {
		return "", err
	}
	defer clear(secret)
	return string(secret), nil
}

// ExportCredential returns the stored credential blob for backup.
func (v *Vault) ExportCredential(ctx context.Context) ([]byte, error) {
	cred, err := v.Credential(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(cred, "", "  ")
}

// ImportCredential restores a backup produced by ExportCredential. It does not unlock.
func (v *Vault) ImportCredential(ctx context.Context, blob []byte) (*model.Credential, error) {
	var cred model.Credential
	if err := json.Unmarshal(blob, &cred); err != nil {
		return nil, fmt.Errorf("%w: invalid wallet file", model.ErrValidation)
	}
	if cred.Address == "" || cred.EncryptedSecret.CipherText == "" {
		return nil, fmt.Errorf("%w: invalid wallet file: missing required fields", model.ErrValidation)
	}
	if !addressPattern.MatchString(cred.Address) {
		return nil, fmt.Errorf("%w: invalid wallet file: invalid address format", model.ErrValidation)
	}

	if _, err := v.store.Get(ctx, CredentialKey); err == nil {
		return nil, model.ErrCredentialExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	if err := v.save(ctx, &cred); err != nil {
		return nil, err
	}
	v.logger.Info("wallet file imported", zap.String("address", cred.Address))
	return &cred, nil
}

// ChangePassword re-encrypts the stored secret under newPassword.
func (v *Vault) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	cred, err := v.Credential(ctx)
	if errors.Is(err, model.ErrNoCredential) {
		return err
	}
	if err != nil {
		return model.ErrAuth
	}

	secret, _, err := OpenCredential(cred, oldPassword)
	if err != nil {
		return err
	}
	defer clear(secret)

	env, err := crypto.Seal(secret, newPassword, v.params)
	if err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	cred.EncryptedSecret = *env
	if err := v.save(ctx, cred); err != nil {
		return err
	}
	v.logger.Info("wallet password changed", zap.String("address", cred.Address))
	return nil
}

func (v *Vault) resetTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	if v.idle <= 0 || v.session == nil {
		return
	}
	id := v.session.id
	v.timer = time.AfterFunc(v.idle, func() {
		v.logger.Info("session expired", zap.String("session", id))
		v.lock(id)
	})
}

func (v *Vault) hooksLocked(ended bool) []func() {
	if !ended {
		return nil
	}
	return append([]func(){}, v.onLock...)
}
