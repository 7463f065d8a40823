package handler

import (
	"io"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/wallet"
)

// WalletHandler serves the wallet, network and transfer endpoints.
type WalletHandler struct {
	svc *wallet.Service
}

func NewWalletHandler(svc *wallet.Service) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Create handles POST /wallet/create
// @Summary      Create new wallet
// @Description  Generates a new key, stores it encrypted with the password and unlocks it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Password (at least 8 characters)"
// @Success      200      {object}  model.WalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	resp, err := h.svc.Create(r.Context(), password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Import handles POST /wallet/import
// @Summary      Import wallet
// @Description  Stores an existing 0x-prefixed hex secret encrypted with the password and unlocks it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Secret and password"
// @Success      200      {object}  model.WalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	resp, err := h.svc.Import(r.Context(), req.Secret, password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Decrypts the stored wallet and starts a session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Password"
// @Success      200      {object}  model.WalletResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	resp, err := h.svc.Unlock(r.Context(), password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Ends the session. The stored wallet is kept
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.svc.Lock()
	writeJSON(w, http.StatusOK, model.WalletResponse{Success: true, Message: "Wallet locked"})
}

// Reset handles POST /wallet/reset
// @Summary      Reset wallet
// @Description  Ends the session and erases the stored wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Router       /wallet/reset [post]
func (h *WalletHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.svc.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.WalletResponse{Success: true, Message: "Wallet erased"})
}

// Export handles POST /wallet/export
// @Summary      Show private key
// @Description  Re-checks the password and returns the plaintext secret
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Password"
// @Success      200      {object}  model.ExportResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallet/export [post]
func (h *WalletHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	resp, err := h.svc.ExportSecret(r.Context(), password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Backup handles GET /wallet/backup
// @Summary      Download wallet file
// @Description  Returns the encrypted wallet as stored
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.Credential
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/backup [get]
func (h *WalletHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	blob, err := h.svc.Backup(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="wallet.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// Restore handles POST /wallet/restore
// @Summary      Restore wallet file
// @Description  Installs a wallet file produced by /wallet/backup. The wallet stays locked
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.Credential  true  "Wallet file"
// @Success      200      {object}  model.WalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/restore [post]
func (h *WalletHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	blob, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.svc.Restore(r.Context(), blob)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Native balance on the active network and its fiat value when a price is known
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Receive handles GET /wallet/receive
// @Summary      Receive address
// @Description  Wallet address with a base64 PNG QR code
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ReceiveResponse
// @Router       /wallet/receive [get]
func (h *WalletHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.Receive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /wallet/history
// @Summary      Get wallet transactions
// @Description  Transfers reported by the active network's explorer API
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.HistoryResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/history [get]
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
