// headers/headers_test.go
package headers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRender(t *testing.T) {
	profile := http.Header{
		"Accept":        {"application/json"},
		"Authorization": {"Bearer {token}"},
		"X-Double":      {"{token}|{token}"},
	}

	token := `a+b/c=d&e%f "g"`
	out := Render(profile, token)

	assert.Equal(t, "Bearer "+token, out.Get("Authorization"), "token should be inserted verbatim")
	assert.Equal(t, token+"|"+token, out.Get("X-Double"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "Bearer {token}", profile.Get("Authorization"), "source profile must not change")
}

func TestRender_NoPlaceholder(t *testing.T) {
	out := Render(http.Header{"Accept": {"text/xml"}}, "abc")
	assert.Equal(t, http.Header{"Accept": {"text/xml"}}, out)
}

func TestApply(t *testing.T) {
	dst := http.Header{"Accept": {"*/*"}}
	Apply(dst, http.Header{"accept": {"application/json"}, "Content-Type": {"text/xml"}})

	assert.Equal(t, "application/json", dst.Get("Accept"))
	assert.Equal(t, "text/xml", dst.Get("Content-Type"))
	assert.Len(t, dst, 2)
}

func TestSetAuthorization(t *testing.T) {
	h := http.Header{}
	SetAuthorization(h, "test-token")
	assert.Equal(t, "Bearer test-token", h.Get("Authorization"))

	SetAuthorization(h, "Bearer other")
	assert.Equal(t, "Bearer Bearer other", h.Get("Authorization"), "the token is sent verbatim")
}

func TestHeadersToString(t *testing.T) {
	h := http.Header{"B": {"2", "3"}, "A": {"1"}}
	assert.Equal(t, "A: 1\nB: 2, 3", HeadersToString(h))
}

func TestLogHeaders(t *testing.T) {
	mockLog := mocklogger.NewMockLogger()
	mockLog.On("SetLevel", logger.LogLevelDebug).Once()
	mockLog.SetLevel(logger.LogLevelDebug)
	mockLog.On("Debug", "HTTP Request Headers", mock.Anything).Once()

	LogHeaders(mockLog, http.Header{"Authorization": {"Bearer secret"}}, true)

	mockLog.AssertExpectations(t)
}

func TestLogHeaders_SkippedAboveDebug(t *testing.T) {
	mockLog := mocklogger.NewMockLogger()
	mockLog.On("SetLevel", logger.LogLevelInfo).Once()
	mockLog.SetLevel(logger.LogLevelInfo)

	LogHeaders(mockLog, http.Header{"Accept": {"application/json"}}, true)

	mockLog.AssertNotCalled(t, "Debug", mock.Anything, mock.Anything)
}

func TestCheckDeprecationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com/api/v1/old", nil)
	resp := &http.Response{Header: http.Header{"Deprecation": {"2024-01-01"}}, Request: req}

	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Warn", "API endpoint is deprecated", mock.Anything).Once()

	CheckDeprecationHeader(resp, mockLog)
	mockLog.AssertExpectations(t)
}

func TestCheckDeprecationHeader_Absent(t *testing.T) {
	mockLog := mocklogger.NewMockLogger()
	CheckDeprecationHeader(&http.Response{Header: http.Header{}}, mockLog)
	mockLog.AssertNotCalled(t, "Warn", mock.Anything, mock.Anything)
}
