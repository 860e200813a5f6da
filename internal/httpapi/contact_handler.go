package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/csmith-03/alliger-house-of-wings/internal/email"
)

type ContactHandler struct {
	sender email.Sender
}

func NewContactHandler(sender email.Sender) *ContactHandler {
	return &ContactHandler{sender: sender}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req contactRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_body", "invalid form data")
			return
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Message = r.FormValue("message")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Email == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "email and message are required")
		return
	}

	msg := email.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.sender.SendContact(r.Context(), msg); err != nil {
		log.Printf("contact send failed: %v", err)
		respondError(w, http.StatusInternalServerError, "send_failed", "failed to send message")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
