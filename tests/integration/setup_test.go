package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"outgo/internal/fx"
	"outgo/internal/handlers"
	"outgo/internal/logger"
	"outgo/internal/middleware"
	"outgo/internal/models"
	"outgo/internal/notifier"
	"outgo/internal/services"
	"outgo/internal/testutil"
	"outgo/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Expense{},
		&models.Budget{},
		&models.Profile{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database, the given daily-rate source, and the given relay.
func setupApp(t *testing.T, fxBaseURL, relayBaseURL string) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	httpClient := &http.Client{Timeout: 5 * time.Second}
	converter := fx.NewConverter(httpClient, fxBaseURL, fx.NewMemoryCache())
	dispatcher := notifier.NewClient(httpClient, relayBaseURL, "")

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	budgetService := services.NewBudgetService(db)
	profileService := services.NewProfileService(db)
	summaryService := services.NewSummaryService(
		converter, expenseService, categoryService, budgetService, profileService, dispatcher,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, summaryService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, summaryService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	settingsHandler := handlers.NewSettingsHandler(profileService, auditService)
	notificationHandler := handlers.NewNotificationHandler(dispatcher)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	budgets := protected.Group("/budgets")
	budgets.PUT("/:month", budgetHandler.SetBudget)
	budgets.GET("/:month", budgetHandler.GetBudget)
	budgets.GET("/:month/status", budgetHandler.GetBudgetStatus)
	budgets.DELETE("/:month", budgetHandler.DeleteBudget)

	protected.GET("/summary/:month", summaryHandler.GetMonthlySummary)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("/currency", settingsHandler.SetBaseCurrency)

	notifications := protected.Group("/notifications")
	notifications.POST("/subscribe", notificationHandler.Subscribe)
	notifications.POST("/test", notificationHandler.TestNotification)

	return &testApp{DB: db, Router: router}
}

// setupEuroApp is for tests that never leave the default currency: the rate
// source serves no rates and the relay answers 404 for every user.
func setupEuroApp(t *testing.T) *testApp {
	t.Helper()

	fxServer := testutil.NewFxStubServer(nil)
	t.Cleanup(fxServer.Close)
	relayServer := newRelayStub(nil)
	t.Cleanup(relayServer.Close)

	return setupApp(t, fxServer.URL, relayServer.URL)
}

// newRelayStub imitates the push relay: subscribe always succeeds, notify
// succeeds for users in delivered (recording the payload) and 404s otherwise.
func newRelayStub(delivered *[]map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscribe":
			w.WriteHeader(http.StatusCreated)
		case "/notify":
			if delivered == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var payload map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			*delivered = append(*delivered, payload)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(string)
}

// createExpense records an expense and returns its ID.
func (app *testApp) createExpense(t *testing.T, token, categoryID string, amount float64, currencyCode, occurredAt string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%v,"currency":%q,"category_id":%q,"occurred_at":%q}`,
		amount, currencyCode, categoryID, occurredAt)
	rec := app.request("POST", "/api/v1/expenses", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	return expense["id"].(string)
}
