// internal/handlers/handlers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/database"
	"bookstore-backend/internal/router"
)

type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(db))

	suite.db = db
	suite.router = router.Initialize(db, &config.Config{Environment: "test"})
}

func (suite *HandlersTestSuite) TearDownTest() {
	database.Close(suite.db)
}

func (suite *HandlersTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.request("GET", "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestCreateAuthor() {
	w := suite.request("POST", "/v1/authors", map[string]interface{}{
		"name":    "Leo Tolstoy",
		"country": "Russia",
	})
	suite.Equal(http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response["success"].(bool))

	// Missing name maps to 400
	w = suite.request("POST", "/v1/authors", map[string]interface{}{"country": "Russia"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestNotFoundMapsTo404() {
	w := suite.request("GET", "/v1/authors/9999", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request("GET", "/v1/books/9999", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestConflictMapsTo409() {
	payload := map[string]interface{}{
		"name":  "Ivan Petrov",
		"email": "ivan@example.com",
	}
	w := suite.request("POST", "/v1/clients", payload)
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request("POST", "/v1/clients", payload)
	suite.Equal(http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.False(response["success"].(bool))
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
