package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pennywise/internal/assistant"
	apperrors "pennywise/internal/errors"
)

// Asker answers free-form questions about the ledger.
type Asker interface {
	Ask(ctx context.Context, question string) (*assistant.Answer, error)
}

// AssistantHandler handles the chat assistant.
type AssistantHandler struct {
	assistant Asker
}

// NewAssistantHandler creates a new AssistantHandler. A nil assistant means
// no AI provider is configured.
func NewAssistantHandler(a Asker) *AssistantHandler {
	return &AssistantHandler{assistant: a}
}

// ChatRequest represents a question for the assistant.
type ChatRequest struct {
	Question string `json:"question" binding:"required,min=1,max=2000"`
}

// Chat handles a question to the assistant.
// @Summary     Ask the assistant
// @Description Answer a question about spending using the most relevant transactions and current insights
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Param       request body ChatRequest true "Question"
// @Success     200 {object} assistant.Answer "Answer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Failure     503 {object} ErrorResponse "Assistant unavailable"
// @Router      /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if h.assistant == nil {
		respondWithError(c, apperrors.ErrAIUnavailable)
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			respondWithError(c, err)
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrAIUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
