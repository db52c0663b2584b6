package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"budgetmate/internal/handlers"
	"budgetmate/internal/logger"
	"budgetmate/internal/middleware"
	"budgetmate/internal/models"
	"budgetmate/internal/services"
	"budgetmate/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mailer *captureMailer
}

// captureMailer records reset mail attempts instead of sending anything.
// Delivered stays false so handlers fall back to returning the reset link.
type captureMailer struct {
	Delivered bool
	LastTo    string
	LastURL   string
}

func (m *captureMailer) SendPasswordReset(to, resetURL string) bool {
	m.LastTo = to
	m.LastURL = resetURL
	return m.Delivered
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
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Transaction{},
		&models.Goal{},
		&models.GoalContribution{},
		&models.PasswordResetToken{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	m := &captureMailer{}

	// Services
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	reportService := services.NewReportService(userService, transactionService, goalService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, transactionService, goalService, m)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(userService, transactionService, goalService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.GetProfile)
	protected.PUT("/auth/me", authHandler.UpdateProfile)
	protected.GET("/dashboard", transactionHandler.GetDashboard)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/categories", transactionHandler.GetCategoryBreakdown)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	goals := protected.Group("/goals")
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/contributions", goalHandler.ListContributions)
	goals.POST("/:id/contributions", goalHandler.AddContribution)
	goals.PUT("/:id/contributions/:contributionId", goalHandler.UpdateContribution)
	goals.DELETE("/:id/contributions/:contributionId", goalHandler.DeleteContribution)

	protected.GET("/reports/me", reportHandler.DownloadMyReport)

	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/admin/users", adminHandler.ListUsers)
	admin.PUT("/admin/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	admin.GET("/admin/users/:id/overview", adminHandler.GetUserOverview)
	admin.GET("/admin/transactions", adminHandler.ListTransactions)
	admin.DELETE("/admin/transactions/:id", adminHandler.DeleteTransaction)
	admin.GET("/reports/user/:id", reportHandler.DownloadUserReport)

	return &testApp{DB: db, Router: router, Mailer: m}
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

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":%q,"salary":50000}`, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// registerAdmin registers a user, promotes it, and logs in again so the
// token carries the admin role.
func (app *testApp) registerAdmin(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	_, userID = app.registerUser(t, email, password)
	if err := app.DB.Model(&models.User{}).Where("id = ?", uint(userID)).Update("role", models.UserRoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	return app.loginUser(t, email, password), userID
}
