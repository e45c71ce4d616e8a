package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetMessages returns the conversation between two members as a bare
// JSON array.
func (s *Server) handleGetMessages(c *gin.Context) {
	var req membersRequest
	if !bindJSON(c, &req) {
		return
	}

	msgs, err := s.conv.GetMessages(c.Request.Context(), req.MembersID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

func (s *Server) handleCreateChat(c *gin.Context) {
	var req membersRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.conv.CreateChat(c.Request.Context(), req.MembersID); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) handleCreateMessage(c *gin.Context) {
	var req createMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := s.conv.CreateMessage(c.Request.Context(), req.From, req.To, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}
