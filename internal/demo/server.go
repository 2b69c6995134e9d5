package demo

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/inkwell/internal/logger"
	"github.com/existflow/inkwell/internal/model"
)

// Server is an in-memory stand-in for the blogging platform API.
// It exists so the client can be exercised end-to-end without the
// real service; state is lost on restart.
type Server struct {
	echo *echo.Echo

	mu     sync.Mutex
	users  map[string]*account // by email
	tokens map[string]token
	posts  map[string]*model.Post
	order  []string // post ids, newest first
}

type account struct {
	user model.User
	hash []byte
}

type token struct {
	userID    string
	expiresAt time.Time
}

// New creates a demo server seeded with a few published posts
func New() *Server {
	s := &Server{
		users:  make(map[string]*account),
		tokens: make(map[string]token),
		posts:  make(map[string]*model.Post),
	}
	s.seed()
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("HTTP",
				logger.F("method", c.Request().Method),
				logger.F("uri", c.Request().RequestURI),
				logger.F("status", c.Response().Status),
				logger.F("duration", time.Since(start).String()))
			return err
		}
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/posts", s.handleListPosts)
	api.GET("/posts/:id", s.handleGetPost)
	api.GET("/stats", s.handleStats)

	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.POST("/posts", s.handleCreatePost)
	protected.PUT("/posts/:id", s.handleUpdatePost)
	protected.DELETE("/posts/:id", s.handleDeletePost)
	protected.PUT("/posts/:id/like", s.handleToggleLike)
	protected.POST("/posts/:id/comments", s.handleAddComment)
	protected.PUT("/posts/:id/comments/:commentId", s.handleEditComment)
	protected.DELETE("/posts/:id/comments/:commentId", s.handleDeleteComment)

	s.echo = e
}

// Router returns the HTTP handler, so tests can mount the server on
// an httptest listener
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func message(c echo.Context, code int, format string, args ...interface{}) error {
	return c.JSON(code, map[string]string{"message": fmt.Sprintf(format, args...)})
}

// authMiddleware resolves the bearer token to a user id
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			return message(c, http.StatusUnauthorized, "authorization required")
		}

		s.mu.Lock()
		tok, ok := s.tokens[raw]
		s.mu.Unlock()
		if !ok {
			return message(c, http.StatusUnauthorized, "invalid token")
		}
		if time.Now().After(tok.expiresAt) {
			return message(c, http.StatusUnauthorized, "token expired")
		}

		c.Set("user_id", tok.userID)
		return next(c)
	}
}

func (s *Server) userByID(id string) *model.User {
	for _, acct := range s.users {
		if acct.user.ID == id {
			u := acct.user
			return &u
		}
	}
	return nil
}

type authRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authResponse struct {
	User          model.User `json:"user"`
	Token         string     `json:"token"`
	SessionExpiry string     `json:"sessionExpiry"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return message(c, http.StatusBadRequest, "username, email, and password required")
	}
	if len(req.Password) < 8 {
		return message(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return message(c, http.StatusInternalServerError, "internal error")
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		return message(c, http.StatusBadRequest, "email already registered")
	}
	user := model.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      "author",
		CreatedAt: time.Now().UTC(),
	}
	s.users[req.Email] = &account{user: user, hash: hash}
	tok, expiry := s.issueToken(user.ID)
	s.mu.Unlock()

	logger.Info("Demo user registered", logger.F("username", req.Username))
	return c.JSON(http.StatusCreated, authResponse{
		User:          user,
		Token:         tok,
		SessionExpiry: expiry.Format(time.RFC3339),
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}

	s.mu.Lock()
	acct, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok {
		return message(c, http.StatusUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)); err != nil {
		return message(c, http.StatusUnauthorized, "invalid email or password")
	}

	s.mu.Lock()
	tok, expiry := s.issueToken(acct.user.ID)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, authResponse{
		User:          acct.user,
		Token:         tok,
		SessionExpiry: expiry.Format(time.RFC3339),
	})
}

// issueToken creates a 24h bearer token. Caller holds the lock.
func (s *Server) issueToken(userID string) (string, time.Time) {
	raw := uuid.NewString()
	expiry := time.Now().Add(24 * time.Hour)
	s.tokens[raw] = token{userID: userID, expiresAt: expiry}
	return raw, expiry
}
