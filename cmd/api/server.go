package main

import (
	"context"
	"net/http"
	"time"

	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/metrics"
	"github.com/PaulBabatuyi/chatapp-rest/internal/middleware"
	"github.com/PaulBabatuyi/chatapp-rest/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type accountService interface {
	Signup(ctx context.Context, p service.SignupParams) (bson.ObjectID, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	FindAll(ctx context.Context, pattern string) ([]data.UserSummary, error)
	GetUserID(ctx context.Context, email string) (bson.ObjectID, error)
	GetFriends(ctx context.Context, rawID string) (*data.User, error)
}

type socialService interface {
	FriendRequest(ctx context.Context, requesterID, recipientEmail string) error
	AddFriend(ctx context.Context, accepterID, requesterEmail string) error
}

type conversationService interface {
	CreateChat(ctx context.Context, membersID []string) error
	GetMessages(ctx context.Context, membersID []string) ([]*data.Message, error)
	CreateMessage(ctx context.Context, from, to, text string) (*data.Message, error)
}

// pinger reports whether the database is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	account  accountService
	social   socialService
	conv     conversationService
	verifier middleware.TokenVerifier
	db       pinger
	logger   *zap.Logger
}

// newServer returns a ready-to-use Server wired with services and auth manager.
func newServer(
	account accountService,
	social socialService,
	conv conversationService,
	verifier middleware.TokenVerifier,
	db pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		account:  account,
		social:   social,
		conv:     conv,
		verifier: verifier,
		db:       db,
		logger:   logger,
	}
}

// routerOptions carries the HTTP settings the router needs.
type routerOptions struct {
	AllowedOrigins []string
	StaticDir      string
	RequestTimeout time.Duration
}

// routes builds the gin engine with the middleware chain and every endpoint.
func (s *Server) routes(opts routerOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Metrics(),
		middleware.Recovery(s.logger),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Error 404: Not found."})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Error 405: Method not allowed."})
	})

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.StaticDir != "" {
		r.Static("/app", opts.StaticDir)
	}

	authenticate := middleware.Authenticate(s.verifier, s.logger)
	timeout := middleware.Timeout(opts.RequestTimeout)

	authGroup := r.Group("/auth", timeout)
	{
		authGroup.POST("/signup", s.handleSignup)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/verify", authenticate, s.handleVerify)
		authGroup.GET("/getfriends/:id", authenticate, s.handleGetFriends)
		authGroup.POST("/getuserid", authenticate, s.handleGetUserID)
		authGroup.POST("/findall", authenticate, s.handleFindAll)
		authGroup.POST("/friendrequest", authenticate, s.handleFriendRequest)
		authGroup.POST("/addfriend", authenticate, s.handleAddFriend)
	}

	msgGroup := r.Group("/message", timeout, authenticate)
	{
		msgGroup.POST("/getmessages", s.handleGetMessages)
		msgGroup.POST("/createchat", s.handleCreateChat)
		msgGroup.POST("/createmessage", s.handleCreateMessage)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
