package handler

import (
	"encoding/json"
	"net/http"
)

// Health は死活監視用のエンドポイント。
// GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
