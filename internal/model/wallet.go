package model

import "time"

// Credential is the at-rest form of the wallet: public address plus the encrypted secret.
type Credential struct {
	Address         string   `json:"address"`
	EncryptedSecret Envelope `json:"encryptedSecret"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

// Envelope holds the scrypt parameters and AES-GCM output (base64 fields).
type Envelope struct {
	KDF        string `json:"kdf"`
	N          int    `json:"n"`
	R          int    `json:"r"`
	P          int    `json:"p"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// SessionInfo is the public view of an unlocked session. The secret is never part of it.
type SessionInfo struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// PasswordRequest represents request for POST /wallet/create, /wallet/unlock, /wallet/export
type PasswordRequest struct {
	Password string `json:"password"`
}

// ImportRequest represents request for POST /wallet/import
type ImportRequest struct {
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

// WalletResponse represents response for create/import/unlock
type WalletResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Address string       `json:"address,omitempty"`
	Session *SessionInfo `json:"session,omitempty"`
}

// ExportResponse represents response for POST /wallet/export
type ExportResponse struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// ReceiveResponse represents response for GET /wallet/receive
type ReceiveResponse struct {
	Address string `json:"address"`
	QR      string `json:"QR"` // base64 PNG
}
