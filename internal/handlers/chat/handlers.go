// Package chat serves the financial assistant endpoint backed by Gemini.
package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financer/internal/advisor"
	api "financer/internal/http"
)

var adv *advisor.Advisor

// Initialize sets up the chat package. adv may be nil when no API key is
// configured; the endpoint then reports the assistant as unavailable.
func Initialize(a *advisor.Advisor) {
	adv = a
}

// RegisterRoutes registers the chat route
func RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", handleChat)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	if adv == nil {
		api.RespondError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req chatRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	answer, err := adv.Ask(r.Context(), req.Message)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, chatResponse{Response: answer})
}
