package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/realtime"
	"github.com/justsurfingit/jobx/internal/services"
)

type ChatHandler struct {
	chat   *services.ChatService
	socket *realtime.Server
	log    *slog.Logger
}

func NewChatHandler(chat *services.ChatService, socket *realtime.Server, log *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, socket: socket, log: log}
}

func (h *ChatHandler) History(c *gin.Context) {
	postingID, err := paramID(c, "postingId")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	messages, err := h.chat.History(c.Request.Context(), postingID, actor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	respond(c, http.StatusOK, "", gin.H{"messages": messages})
}

func (h *ChatHandler) Conversations(c *gin.Context) {
	chats, err := h.chat.Conversations(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if chats == nil {
		chats = []models.Conversation{}
	}
	respond(c, http.StatusOK, "", gin.H{"chats": chats})
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.chat.Delete(c.Request.Context(), id, userID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Message deleted successfully", nil)
}

// Socket upgrades an authenticated request to the chat websocket.
func (h *ChatHandler) Socket(c *gin.Context) {
	a := actor(c)
	h.socket.ServeConn(c.Writer, c.Request, a.ID, a.Role)
}
