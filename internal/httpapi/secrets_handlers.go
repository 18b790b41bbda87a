package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"coursehub-engine/internal/config"
	"coursehub-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setPortalPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetPortalPassword(w http.ResponseWriter, r *http.Request) {
	var req setPortalPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	account := cfg.Sources.Portal.KeyringAccount
	if account == "" {
		account = secrets.PortalKeyringAccount(cfg.Sources.Portal.Username)
	}
	if err := secrets.SetPortalPassword(account, req.Password); err != nil {
		http.Error(w, "failed to store password: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
