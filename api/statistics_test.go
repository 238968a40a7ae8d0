package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"spendwatch/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(amount, category string, date time.Time) models.Transaction {
	return models.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		CategoryKey: models.NormalizeCategory(category),
		Date:        date,
	}
}

func TestSummarize(t *testing.T) {
	may := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)
	june := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

	resp := summarize([]models.Transaction{
		txn("3000.00", "Salary", may),
		txn("-45.50", "Food", may),
		txn("-20.25", " food ", june),
		txn("-800", "Rent", june),
	})

	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Monthly, 2)
	assert.Equal(t, "2024-05", resp.Monthly[0].Month)
	assert.True(t, decimal.RequireFromString("2954.50").Equal(resp.Monthly[0].Total))
	assert.True(t, decimal.RequireFromString("-820.25").Equal(resp.Monthly[1].Total))

	// 同一类别的不同写法合并
	require.Len(t, resp.Categories, 3)
	assert.Equal(t, "Salary", resp.Categories[0].Category)
	assert.Equal(t, "Rent", resp.Categories[1].Category)
	assert.Equal(t, "Food", resp.Categories[2].Category)
	assert.True(t, decimal.RequireFromString("-65.75").Equal(resp.Categories[2].Total))

	assert.True(t, decimal.RequireFromString("3000").Equal(resp.Income))
	assert.True(t, decimal.RequireFromString("865.75").Equal(resp.Expense))
}

func TestSummarize_Empty(t *testing.T) {
	resp := summarize(nil)
	assert.NotNil(t, resp.Monthly)
	assert.NotNil(t, resp.Categories)
	assert.True(t, resp.Income.IsZero())
	assert.True(t, resp.Expense.IsZero())
}

func TestStatisticsHandler_Overview(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT amount, category, category_key, date FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"amount", "category", "category_key", "date"}).
			AddRow("100.00", "Salary", "salary", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).
			AddRow("-40.00", "Food", "food", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/statistics", NewStatisticsHandler(db, time.UTC).Overview)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/statistics?start_date=2024-06-01&end_date=2024-06-30", nil))

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			Income  string `json:"income"`
			Expense string `json:"expense"`
			Count   int    `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "100", resp.Data.Income)
	assert.Equal(t, "40", resp.Data.Expense)
	assert.Equal(t, 2, resp.Data.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsHandler_Overview_BadDate(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/statistics", NewStatisticsHandler(db, time.UTC).Overview)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/statistics?start_date=2024/06/01&end_date=2024-06-30", nil))
	assert.Equal(t, 400, w.Code)
}
