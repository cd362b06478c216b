package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_ErrorResponseStructure checks that every failing request,
// whatever the cause, yields the standard error body with a non-empty code
// and message.
func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("all error responses carry code and message", prop.ForAll(
		func(scenario string) bool {
			router, _ := setupMedicationRouter()
			w := httptest.NewRecorder()

			var req *http.Request
			var expectedCode string
			var expectedStatus int

			switch scenario {
			case "invalid_json":
				req = httptest.NewRequest("POST", "/api/v1/medications", bytes.NewBufferString("{invalid json"))
				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "missing_fields":
				req = httptest.NewRequest("POST", "/api/v1/medications", bytes.NewBufferString(`{"name":"Lisinopril"}`))
				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "bad_frequency":
				req = httptest.NewRequest("POST", "/api/v1/medications",
					bytes.NewBufferString(`{"name":"Lisinopril","dosage":"10mg","frequency":"hourly","startDate":"2024-03-01"}`))
				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "bad_date_range":
				req = httptest.NewRequest("GET", "/api/v1/adherence?start=2024-03-09&end=2024-03-01", nil)
				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "unknown_medication":
				req = httptest.NewRequest("GET", "/api/v1/medications/no-such-id", nil)
				expectedCode = "NOT_FOUND"
				expectedStatus = http.StatusNotFound

			default:
				return true
			}

			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != expectedStatus {
				t.Logf("scenario %s: expected status %d, got %d", scenario, expectedStatus, w.Code)
				return false
			}

			var errorResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("scenario %s: unparseable error body: %v", scenario, err)
				return false
			}
			if errorResp.Code != expectedCode {
				t.Logf("scenario %s: expected code %s, got %s", scenario, expectedCode, errorResp.Code)
				return false
			}
			return errorResp.Message != ""
		},
		gen.OneConstOf(
			"invalid_json",
			"missing_fields",
			"bad_frequency",
			"bad_date_range",
			"unknown_medication",
		),
	))

	properties.TestingRun(t)
}
