package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/services"
)

// POST /messages/send
func SendMessage(messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sender, ok := currentIdentity(c)
		if !ok {
			return
		}
		var body dto.SendMessageDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		m, err := messages.Send(c.Request.Context(), sender, body.ReceiverID, body.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// GET /messages/conversation/:user1Id/:user2Id
func GetConversation(messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := currentIdentity(c)
		if !ok {
			return
		}
		user1, ok := pathID(c, "user1Id")
		if !ok {
			return
		}
		user2, ok := pathID(c, "user2Id")
		if !ok {
			return
		}
		list, err := messages.Conversation(c.Request.Context(), requester, user1, user2)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /messages/all
func GetAllMessages(messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := currentIdentity(c)
		if !ok {
			return
		}
		list, err := messages.All(c.Request.Context(), requester)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
