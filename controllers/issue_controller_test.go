package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindCreateIssue(t *testing.T, body string) (CreateIssueRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/issues", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateIssueRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestCreateIssueBindingAcceptsZeroCoordinates(t *testing.T) {
	req, err := bindCreateIssue(t, `{"title":"Flooded jetty","category_id":3,"latitude":0,"longitude":0}`)
	if err != nil {
		t.Fatalf("zero coordinates must bind: %v", err)
	}
	if req.Latitude == nil || *req.Latitude != 0 {
		t.Fatalf("latitude not bound: %+v", req.Latitude)
	}
	if req.Longitude == nil || *req.Longitude != 0 {
		t.Fatalf("longitude not bound: %+v", req.Longitude)
	}
}

func TestCreateIssueBindingRequiresCoordinates(t *testing.T) {
	if _, err := bindCreateIssue(t, `{"title":"Flooded jetty","category_id":3,"longitude":76.276}`); err == nil {
		t.Fatalf("missing latitude must be rejected")
	}
	if _, err := bindCreateIssue(t, `{"title":"Flooded jetty","category_id":3,"latitude":9.9815}`); err == nil {
		t.Fatalf("missing longitude must be rejected")
	}
}
