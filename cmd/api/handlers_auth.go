package main

import (
	"net/http"

	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"
	"github.com/PaulBabatuyi/chatapp-rest/internal/service"
	"github.com/gin-gonic/gin"
)

// handleSignup registers a new account.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := s.account.Signup(c.Request.Context(), service.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Username: normalize.Text(req.Username),
		Info:     normalize.Text(req.Info),
		Age:      int(req.Age),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "success"})
}

// handleLogin authenticates a user and returns a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := s.account.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"user": gin.H{
			"_id":   res.User.ID,
			"email": res.User.Email,
		},
		"token": res.Token,
	})
}

// handleVerify only runs once the token gate has passed.
func (s *Server) handleVerify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) handleGetFriends(c *gin.Context) {
	user, err := s.account.GetFriends(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": user})
}

func (s *Server) handleGetUserID(c *gin.Context) {
	var req getUserIDRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := s.account.GetUserID(c.Request.Context(), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "success", "userId": id})
}

func (s *Server) handleFindAll(c *gin.Context) {
	var req findAllRequest
	if !bindJSON(c, &req) {
		return
	}

	users, err := s.account.FindAll(c.Request.Context(), req.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "success", "data": users})
}

func (s *Server) handleFriendRequest(c *gin.Context) {
	var req friendRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.social.FriendRequest(c.Request.Context(), req.ID, req.Friendname); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent successfully"})
}

func (s *Server) handleAddFriend(c *gin.Context) {
	var req friendRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.social.AddFriend(c.Request.Context(), req.ID, req.Friendname); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
