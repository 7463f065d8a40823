package handler

import (
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
)

// Network handles GET and POST /network
// @Summary      List or switch networks
// @Description  GET lists the configured networks; POST switches the active one
// @Tags         network
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwitchNetworkRequest  false  "Network id (POST only)"
// @Success      200      {object}  model.NetworkResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /network [get]
// @Router       /network [post]
func (h *WalletHandler) Network(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.Networks())
	case http.MethodPost:
		var req model.SwitchNetworkRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		resp, err := h.svc.SwitchNetwork(r.Context(), req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
	}
}

// Quote handles POST /transfer/quote
// @Summary      Quote transfer
// @Description  Fills in gas defaults, computes the fee and checks the balance. Nothing is sent
// @Tags         transfer
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Draft transfer"
// @Success      200      {object}  model.Quote
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /transfer/quote [post]
func (h *WalletHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.TransferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Send handles POST /transfer/send
// @Summary      Send transfer
// @Description  Re-quotes and starts the transfer. Poll /transfer/status for progress
// @Tags         transfer
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Transfer"
// @Success      202      {object}  model.SendResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /transfer/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.TransferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.svc.Send(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, model.SendResponse{
		Quote:   *q,
		Receipt: h.svc.Transfer().Receipt,
	})
}

// Status handles GET /transfer/status
// @Summary      Transfer status
// @Description  Stage (0 initiated, 1 broadcast, 2 confirming, 3 terminal), hash, success and error of the last transfer
// @Tags         transfer
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /transfer/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Transfer())
}

// Dismiss handles POST /transfer/dismiss
// @Summary      Dismiss transfer
// @Description  Clears the last transfer back to stage 0
// @Tags         transfer
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /transfer/dismiss [post]
func (h *WalletHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DismissTransfer())
}
