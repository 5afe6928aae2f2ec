// response/evaluate.go
package response

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/deploymenttheory/go-jamfpi/status"
	"go.uber.org/zap"
)

// Evaluate reports whether resp carries a 2xx status. A non-2xx response is logged at warn
// level and reported as (false, nil), or returned as an *apierrors.HTTPResponseError when
// strict is set. The body stays readable for the caller either way.
func Evaluate(resp *http.Response, strict bool, log logger.Logger) (bool, error) {
	if resp == nil {
		return false, fmt.Errorf("nil response")
	}
	if status.IsSuccess(resp.StatusCode) {
		return true, nil
	}

	body, err := Rebuffer(resp)
	if err != nil {
		return false, err
	}

	apiErr := NewHTTPResponseError(resp, body)
	log.Warn(fmt.Sprintf("%s call to %s failed", apiErr.Method, apiErr.URL),
		zap.Int("status_code", apiErr.StatusCode),
		zap.String("message", apiErr.Message),
	)

	if strict {
		return false, apiErr
	}
	return false, nil
}

// Rebuffer reads the whole body of resp and replaces it with an in-memory copy so it can be
// read again.
func Rebuffer(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
