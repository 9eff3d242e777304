package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/slangop28/local-electrician-sub001/platform/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "not found", err: apperr.NotFound("request not found"), wantStatus: http.StatusNotFound, wantMsg: "request not found"},
		{name: "conflict", err: apperr.Conflict("already claimed"), wantStatus: http.StatusConflict, wantMsg: "already claimed"},
		{name: "forbidden wrapped", err: fmt.Errorf("outer: %w", apperr.Forbidden("not yours")), wantStatus: http.StatusForbidden, wantMsg: "not yours"},
		{name: "upstream hides cause", err: apperr.Upstream("store unavailable", errors.New("dial tcp: refused")), wantStatus: http.StatusInternalServerError, wantMsg: "store unavailable"},
		{name: "untyped", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			if !HandleError(c, tt.err) {
				t.Fatal("HandleError returned false")
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Success || body.Error != tt.wantMsg {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Error("nil error reported as handled")
	}
}

func TestRequireQuerySecret(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		query      string
		want       int
	}{
		{name: "match", configured: "abc", query: "?secret=abc", want: http.StatusOK},
		{name: "wrong", configured: "abc", query: "?secret=abd", want: http.StatusUnauthorized},
		{name: "missing", configured: "abc", query: "", want: http.StatusUnauthorized},
		{name: "unconfigured", configured: "", query: "?secret=", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.POST("/sync", RequireQuerySecret("secret", tt.configured), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync"+tt.query, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSuccessMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Success(c, gin.H{"newStatus": "ACCEPTED"})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true || body["newStatus"] != "ACCEPTED" {
		t.Errorf("body = %v", body)
	}
}
