package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prattikkk/Incubyte/internal/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sweetRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Quantity int     `json:"quantity" binding:"min=0"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": s.cfg.Environment,
	})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "validation_failed", "Validation failed")
		return
	}

	if err := s.store.createUser(req.Username, req.Email, req.Password, []string{models.RoleUser}); err != nil {
		errorBody(c, http.StatusBadRequest, "illegal_argument", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"username": req.Username,
		"email":    req.Email,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "validation_failed", "Validation failed")
		return
	}

	u, ok := s.store.authenticate(req.Username, req.Password)
	if !ok {
		errorBody(c, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
		return
	}

	token, issuedAt, expiresAt, err := s.tokens.Issue(u.Username, u.Roles)
	if err != nil {
		s.log.Error().Err(err).Msg("issue token failed")
		errorBody(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token:     token,
		Username:  u.Username,
		Roles:     u.Roles,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	})
}

func (s *Server) listSweets(c *gin.Context) {
	var minPrice, maxPrice *float64
	var err error

	if minPrice, err = priceParam(c, "minPrice"); err != nil {
		errorBody(c, http.StatusBadRequest, "illegal_argument", "minPrice must be a number")
		return
	}
	if maxPrice, err = priceParam(c, "maxPrice"); err != nil {
		errorBody(c, http.StatusBadRequest, "illegal_argument", "maxPrice must be a number")
		return
	}

	sweets := s.store.listSweets(c.Query("name"), c.Query("category"), minPrice, maxPrice)
	c.JSON(http.StatusOK, sweets)
}

func (s *Server) createSweet(c *gin.Context) {
	var req sweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "validation_failed", "Validation failed")
		return
	}

	created := s.store.createSweet(models.Sweet{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateSweet(c *gin.Context) {
	id, ok := sweetID(c)
	if !ok {
		return
	}

	var req sweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "validation_failed", "Validation failed")
		return
	}

	updated, err := s.store.updateSweet(id, models.Sweet{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		errorBody(c, http.StatusNotFound, "not_found", "Sweet not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteSweet(c *gin.Context) {
	id, ok := sweetID(c)
	if !ok {
		return
	}

	if err := s.store.deleteSweet(id); err != nil {
		errorBody(c, http.StatusNotFound, "not_found", "Sweet not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) restockSweet(c *gin.Context) {
	id, ok := sweetID(c)
	if !ok {
		return
	}
	quantity, ok := quantityParam(c)
	if !ok {
		return
	}

	sweet, err := s.store.restock(id, quantity)
	if err != nil {
		errorBody(c, http.StatusNotFound, "not_found", "Sweet not found")
		return
	}
	c.JSON(http.StatusOK, sweet)
}

func (s *Server) purchaseSweet(c *gin.Context) {
	id, ok := sweetID(c)
	if !ok {
		return
	}
	quantity, ok := quantityParam(c)
	if !ok {
		return
	}

	sweet, err := s.store.purchase(id, quantity)
	if err != nil {
		if err == errInsufficientStock {
			errorBody(c, http.StatusConflict, "conflict", "Insufficient stock available")
			return
		}
		errorBody(c, http.StatusNotFound, "not_found", "Sweet not found")
		return
	}
	c.JSON(http.StatusOK, sweet)
}

func sweetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorBody(c, http.StatusBadRequest, "illegal_argument", "id must be an integer")
		return 0, false
	}
	return id, true
}

func quantityParam(c *gin.Context) (int, bool) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity < 1 {
		errorBody(c, http.StatusBadRequest, "illegal_argument", "quantity must be >= 1")
		return 0, false
	}
	return quantity, true
}

func priceParam(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
