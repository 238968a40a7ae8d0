package router

import (
	"net/http/httptest"
	"testing"
	"time"

	"spendwatch/config"
	"spendwatch/middleware"
	"spendwatch/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "router-secret", ExpireTime: time.Hour},
		Budget: config.BudgetConfig{ReminderLookaheadDays: 7, Location: time.UTC},
	}
	middleware.InitJWT(cfg)

	svc := NewServices(cfg, db, service.NewEmailSender(&cfg.Email))
	return SetupRouter(cfg, db, svc), mock, func() { sqlDB.Close() }
}

func TestHealth(t *testing.T) {
	r, _, cleanup := newTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, mock, cleanup := newTestRouter(t)
	defer cleanup()

	for _, path := range []string{
		"/api/v1/transactions",
		"/api/v1/budgets/progress",
		"/api/v1/bills/due-soon",
		"/api/v1/statistics",
		"/api/v1/export/csv",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, 401, w.Code, path)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizedRequest(t *testing.T) {
	r, mock, cleanup := newTestRouter(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	token, err := middleware.GenerateToken(3, "carol", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/bills", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCORSPreflight(t *testing.T) {
	r, _, cleanup := newTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/transactions", nil))

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
