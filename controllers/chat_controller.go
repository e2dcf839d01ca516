package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/services"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// History returns the latest chat messages, oldest first.
func (ctl *ChatController) History(c *gin.Context) {
	items, err := ctl.chat.GetHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
