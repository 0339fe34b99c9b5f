package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-ledger/internal/repository/sqlite"
	"expense-ledger/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accounts := sqlite.NewAccountRepository(db)
	expenses := sqlite.NewExpenseRepository(db)
	require.NoError(t, accounts.Init(context.Background()))
	require.NoError(t, expenses.Init(context.Background()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	handler := NewHandler(
		service.NewAuthService(accounts, "test-secret", time.Hour),
		service.NewExpenseService(expenses),
		logger,
	)
	handler.RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/signup", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupLoginExpenseScenario(t *testing.T) {
	router := newTestRouter(t)

	// signup
	w := doJSON(router, http.MethodPost, "/api/signup", "", gin.H{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User registered successfully")

	// duplicate signup conflicts
	w = doJSON(router, http.MethodPost, "/api/signup", "", gin.H{"email": "a@x.com", "password": "pw2"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")

	// login
	w = doJSON(router, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// create
	w = doJSON(router, http.MethodPost, "/api/expenses", login.Token, gin.H{"description": "coffee", "amount": 5})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Expense added successfully")

	// list round-trips the record
	w = doJSON(router, http.MethodGet, "/api/expenses", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "coffee", list[0].Description)
	assert.Equal(t, 5.0, list[0].Amount)
}

func TestSignupMissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/signup", "", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/signup", "", gin.H{"password": "pw1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	loginAs(t, router, "a@x.com", "pw1")

	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestExpensesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/expenses", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")

	w = doJSON(router, http.MethodGet, "/api/expenses", "garbage-token", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestCreateExpenseMissingFields(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "a@x.com", "pw1")

	w := doJSON(router, http.MethodPost, "/api/expenses", token, gin.H{"description": "coffee"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/expenses", token, gin.H{"amount": 5})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateExpense(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "a@x.com", "pw1")

	w := doJSON(router, http.MethodPost, "/api/expenses", token, gin.H{"description": "coffee", "amount": 5})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/expenses", token, nil)
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = doJSON(router, http.MethodPut, "/api/expenses/"+list[0].ID, token, gin.H{"description": "lunch", "amount": 12})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string          `json:"message"`
		Expense ExpenseResponse `json:"expense"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Expense updated successfully", resp.Message)
	assert.Equal(t, "lunch", resp.Expense.Description)
	assert.Equal(t, 12.0, resp.Expense.Amount)

	w = doJSON(router, http.MethodPut, "/api/expenses/no-such-id", token, gin.H{"description": "x", "amount": 1})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteExpense(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "a@x.com", "pw1")

	w := doJSON(router, http.MethodPost, "/api/expenses", token, gin.H{"description": "coffee", "amount": 5})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/expenses", token, nil)
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = doJSON(router, http.MethodDelete, "/api/expenses/"+list[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Expense deleted successfully")

	// already deleted
	w = doJSON(router, http.MethodDelete, "/api/expenses/"+list[0].ID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrossAccountAccessReportsNotFound(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := loginAs(t, router, "alice@x.com", "pw1")
	bobToken := loginAs(t, router, "bob@x.com", "pw2")

	w := doJSON(router, http.MethodPost, "/api/expenses", aliceToken, gin.H{"description": "coffee", "amount": 5})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/expenses", aliceToken, nil)
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = doJSON(router, http.MethodGet, "/api/expenses", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// not owned looks exactly like absent
	w = doJSON(router, http.MethodPut, "/api/expenses/"+list[0].ID, bobToken, gin.H{"description": "x", "amount": 1})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/expenses/"+list[0].ID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// Bulk delete is a client concern: independent concurrent DELETEs, each with
// its own ownership check. Partial failure leaves the rest deleted.
func TestConcurrentDeletes(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "a@x.com", "pw1")

	for _, desc := range []string{"one", "two", "three"} {
		w := doJSON(router, http.MethodPost, "/api/expenses", token, gin.H{"description": desc, "amount": 1})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, http.MethodGet, "/api/expenses", token, nil)
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)

	survivor := list[2]
	ids := []string{list[0].ID, list[1].ID, "no-such-id"}
	codes := make([]int, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			codes[i] = doJSON(router, http.MethodDelete, "/api/expenses/"+id, token, nil).Code
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusNotFound, codes[2])

	w = doJSON(router, http.MethodGet, "/api/expenses", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, survivor.ID, list[0].ID)
}

func TestHealthAndClientShell(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Expense Ledger")
}
