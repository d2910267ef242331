package handlers

import (
	"encoding/json"
	"net/http"

	middleware "github.com/studypal-app/studypal/internal/api/middlewares"
	"github.com/studypal-app/studypal/internal/core/rag"
	"github.com/studypal-app/studypal/internal/models"
)

type ChatHandler struct {
	engines *rag.Holder
}

func NewChatHandler(engines *rag.Holder) *ChatHandler {
	return &ChatHandler{engines: engines}
}

type chatRequest struct {
	Question string `json:"question"`
	Semester *int   `json:"semester,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// Query answers a question from the caller's own documents. Failures inside
// the engine surface as the fixed fallback answer, never as an HTTP error.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}
	if req.Semester != nil && *req.Semester < 1 {
		http.Error(w, "semester must be a positive integer", http.StatusBadRequest)
		return
	}

	scope := models.QueryScope{
		UserID:   userID,
		Semester: req.Semester,
		Subject:  req.Subject,
	}

	// The engine converts its own failures into the fallback result.
	result, _ := h.engines.Get().Query(r.Context(), req.Question, scope)
	writeJSON(w, result)
}
