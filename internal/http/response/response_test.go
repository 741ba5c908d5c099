package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return body
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Conflict(c, "stoc insuficient", gin.H{"max_quantity": 3})

	body := decodeBody(t, w)
	if body["status_code"].(float64) != CodeConflict {
		t.Fatalf("unexpected status code %v", body["status_code"])
	}
	data := body["data"].(map[string]interface{})
	if data["request_id"] != "req-1" || data["max_quantity"].(float64) != 3 {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestAppErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	cause := errors.New("redis down")
	appErr := WrapError(CodeInternal, "eroare", cause)
	if !errors.Is(appErr, cause) || appErr.Error() != "eroare: redis down" {
		t.Fatalf("unexpected wrap behaviour: %v", appErr)
	}
	AppErrorResponse(c, appErr)

	body := decodeBody(t, w)
	if body["status_code"].(float64) != CodeInternal || body["msg"] != "eroare" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["data"] != nil {
		t.Fatalf("expected nil data without request id, got %v", body["data"])
	}
}
