package handlers

import (
	"encoding/json"
	"finflow-server/src/assistant"
	"log"
	"net/http"
	"strings"
)

// Chat answers a natural language question about the caller's finances.
func Chat(a *assistant.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode chat request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}

		reply, err := a.ProcessQuery(r.Context(), userID, req.Message)
		if err != nil {
			log.Printf("ERROR: Assistant failed to process query for user %d: %v", userID, err)
			http.Error(w, "failed to process message", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}
