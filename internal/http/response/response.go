package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API envelope.
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"total_page"`
}

// PageResponse wraps a list payload together with its pagination.
type PageResponse struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination computes total_page from total and page size.
func NewPagination(page, pageSize int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CodeOK, "success", data)
}

// SuccessWithMsg writes a 200 response with a custom message.
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, http.StatusOK, CodeOK, msg, data)
}

// Created writes a 201 response for newly created resources.
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, CodeOK, "success", data)
}

// SuccessWithPage writes a 200 list response with pagination.
func SuccessWithPage(c *gin.Context, list interface{}, pagination Pagination) {
	write(c, http.StatusOK, CodeOK, "success", PageResponse{List: list, Pagination: pagination})
}

// Error writes an error response. The envelope status_code matches the
// HTTP status so clients see the same code in both places.
func Error(c *gin.Context, status int, msg string) {
	write(c, status, status, msg, nil)
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, msg)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, msg)
}

// Internal writes a 500 response.
func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg)
}

func write(c *gin.Context, status, code int, msg string, data interface{}) {
	c.JSON(status, Response{
		StatusCode: code,
		Msg:        msg,
		Data:       attachRequestID(c, data),
	})
}

// attachRequestID merges the request id into map payloads so error
// reports can be correlated with server logs.
func attachRequestID(c *gin.Context, data interface{}) interface{} {
	if c == nil {
		return data
	}
	value, ok := c.Get("request_id")
	if !ok {
		return data
	}
	requestID, ok := value.(string)
	if !ok || requestID == "" {
		return data
	}
	switch payload := data.(type) {
	case nil:
		return gin.H{"request_id": requestID}
	case gin.H:
		if _, exists := payload["request_id"]; !exists {
			payload["request_id"] = requestID
		}
		return payload
	case map[string]interface{}:
		if _, exists := payload["request_id"]; !exists {
			payload["request_id"] = requestID
		}
		return payload
	default:
		return data
	}
}
