package api

import (
	"net/http"
	"time"

	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/service"
	"github.com/fintrack/backend/validate"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth        *service.Authenticator
	categories  *service.CategoryRegistry
	ledger      *service.Ledger
	stats       *service.Aggregator
	store       Pinger
	log         *logger.Logger
	development bool
	now         func() time.Time
}

func NewHandler(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		auth:        d.Auth,
		categories:  d.Categories,
		ledger:      d.Ledger,
		stats:       d.Stats,
		store:       d.Store,
		log:         log.WithComponent(logger.ComponentHTTP),
		development: d.Development,
		now:         time.Now,
	}
}

// pathID parses the :id parameter. An id that cannot name a row is answered
// with the route's not-found error.
func pathID(c *gin.Context) (int64, bool) {
	return validate.ParseID(c.Param("id"))
}

// NotFound answers requests for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.MessageResponse{Message: msgRouteNotFound})
}

// Root godoc
// @Summary Liveness message
// @Tags status
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Finance Tracker API is running"})
}

// Status godoc
// @Summary API status
// @Tags status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "OK", Timestamp: h.now()})
}

// Ready godoc
// @Summary Readiness, including the database
// @Tags status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 503 {object} models.StatusResponse
// @Router /api/status/ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			logger.FromContext(c.Request.Context(), h.log).Warn("store unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, models.StatusResponse{Status: "UNAVAILABLE", Timestamp: h.now()})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "OK", Timestamp: h.now()})
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterInput true "Account"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 429 {object} models.MessageResponse
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Exchange credentials for a token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginInput true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 429 {object} models.MessageResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategories godoc
// @Summary List own and global categories
// @Tags categories
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Category
// @Failure 401 {object} models.MessageResponse
// @Router /api/categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} models.MessageResponse
// @Router /api/categories/{id} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}
	category, err := h.categories.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CategoryInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update an owned category
// @Tags categories
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param input body models.CategoryInput true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 404 {object} models.MessageResponse
// @Router /api/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	category, err := h.categories.Update(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete an owned, unused category
// @Tags categories
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Router /api/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}
	if err := h.categories.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Category deleted"})
}

// GetTransactions godoc
// @Summary List transactions, newest first
// @Tags transactions
// @Security ApiKeyAuth
// @Produce json
// @Param type query string false "income or expense"
// @Param category_id query int false "Category ID"
// @Param from query string false "First date, inclusive (YYYY-MM-DD)"
// @Param to query string false "Last date, inclusive (YYYY-MM-DD)"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /api/transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	var q models.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalidBody(c, err)
		return
	}
	transactions, err := h.ledger.List(c.Request.Context(), userID(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} models.MessageResponse
// @Router /api/transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrTransactionNotFound)
		return
	}
	tx, err := h.ledger.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags transactions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.TransactionInput true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /api/transactions [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	tx, err := h.ledger.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// UpdateTransaction godoc
// @Summary Overwrite an owned transaction
// @Tags transactions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param input body models.TransactionInput true "Transaction"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 404 {object} models.MessageResponse
// @Router /api/transactions/{id} [put]
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrTransactionNotFound)
		return
	}
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.invalidBody(c, err)
		return
	}
	tx, err := h.ledger.Update(c.Request.Context(), userID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction godoc
// @Summary Delete an owned transaction
// @Tags transactions
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Router /api/transactions/{id} [delete]
func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.fail(c, service.ErrTransactionNotFound)
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Transaction deleted"})
}

// GetStats godoc
// @Summary Monthly and per-category totals
// @Tags transactions
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 401 {object} models.MessageResponse
// @Router /api/transactions/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
