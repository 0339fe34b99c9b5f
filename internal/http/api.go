package http

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/service"
	"expense-ledger/web"
)

const ownerIDKey = "ownerID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	expenses service.ExpenseService
	logger   *logrus.Logger
}

func NewHandler(auth service.AuthService, expenses service.ExpenseService, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:     auth,
		expenses: expenses,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/signup", h.signup)
		api.POST("/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		expenses := api.Group("/expenses", h.requireAuth)
		{
			expenses.GET("", h.listExpenses)
			expenses.POST("", h.createExpense)
			expenses.PUT("/:id", h.updateExpense)
			expenses.DELETE("/:id", h.deleteExpense)
		}
	}

	registerClientShell(router)
}

// registerClientShell serves the embedded single-page client.
func registerClientShell(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		page, err := web.StaticFS.ReadFile("static/index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	if sub, err := fs.Sub(web.StaticFS, "static"); err == nil {
		router.StaticFS("/static", http.FS(sub))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth validates the bearer token and stores the account id for
// downstream handlers. A missing token and an invalid one report differently:
// 401 for absent credentials, 400 for a token that fails verification.
func (h *Handler) requireAuth(c *gin.Context) {
	ownerID, err := h.auth.Authenticate(c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return
	}
	c.Set(ownerIDKey, ownerID)
	c.Next()
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type ExpenseResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if _, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) listExpenses(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), c.GetString(ownerIDKey))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		resp[i] = expenseToResponse(expenses[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description and amount are required"})
		return
	}

	if _, err := h.expenses.Create(c.Request.Context(), c.GetString(ownerIDKey), req.Description, req.Amount); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Expense added successfully"})
}

func (h *Handler) updateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description and amount are required"})
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), c.GetString(ownerIDKey), c.Param("id"), req.Description, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense updated successfully",
		"expense": expenseToResponse(*expense),
	})
}

func (h *Handler) deleteExpense(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), c.GetString(ownerIDKey), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// fail maps a service error to a fixed status code and a generic message.
// Store and infrastructure failures are logged, never echoed.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
	case errors.Is(err, domain.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
	default:
		h.logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// validationMessage keeps the client-fixable part of a validation error and
// drops the sentinel suffix.
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+domain.ErrValidation.Error())
}

func expenseToResponse(expense domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		OwnerID:     expense.OwnerID,
		Description: expense.Description,
		Amount:      expense.Amount,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
}
