package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go-gin-prize-draw/internal/handler"
	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/test/internal/mocks/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	InvalidJSON = `{"invalid": json}`
	testToken   = "test-token"
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// 測試用的認證中介層：固定 token 對應固定使用者
func testAuth(user *model.User) gin.HandlerFunc {
	userService := services.NewUserServiceMock()
	userService.On("FindByAPIToken", mock.Anything, testToken).Return(user, nil).Maybe()
	return handler.AuthRequired(userService)
}

func testUser() *model.User {
	return &model.User{
		ID:     1,
		UserID: uuid.New(),
		Name:   "organizer",
		Email:  "organizer@example.com",
	}
}

func withToken(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}
