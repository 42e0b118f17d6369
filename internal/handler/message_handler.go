package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/response"
)

// MessageHandler wires notification storage to HTTP routes.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler constructs a new MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List godoc
// @Summary List messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	views, err := h.messages.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Create godoc
// @Summary Compose one or more messages
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.CreateMessageRequest true "Single message or JSON array of messages"
// @Success 201 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unable to read request body"))
		return
	}

	reqs, err := decodeMessagePayload(body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	created, err := h.messages.Create(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// decodeMessagePayload accepts either a single message object or an
// array of them.
func decodeMessagePayload(body []byte) ([]service.CreateMessageRequest, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []service.CreateMessageRequest
		if err := json.Unmarshal(body, &reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}

	var req service.CreateMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return []service.CreateMessageRequest{req}, nil
}
