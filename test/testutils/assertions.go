// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/savorly/savorly/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// AssertAppError asserts that err is an AppError carrying code
func AssertAppError(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected an AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, msgAndArgs...)
}

// HTTPAssertions provides HTTP response assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the response status code
func (ha *HTTPAssertions) StatusCode(resp *http.Response, expectedCode int, msgAndArgs ...interface{}) {
	ha.t.Helper()
	assert.Equal(ha.t, expectedCode, resp.StatusCode, msgAndArgs...)
}

// SuccessData reads a success envelope and decodes its data into target
func (ha *HTTPAssertions) SuccessData(resp *http.Response, target interface{}) {
	ha.t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(ha.t, err)

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(ha.t, json.Unmarshal(body, &env), string(body))
	require.True(ha.t, env.Success, string(body))
	if target != nil {
		require.NoError(ha.t, json.Unmarshal(env.Data, target), string(env.Data))
	}
}

// ErrorEnvelope asserts the status and error code of an error envelope and
// returns the decoded error
func (ha *HTTPAssertions) ErrorEnvelope(resp *http.Response, status int, code errors.ErrorCode) errors.ErrorDetails {
	ha.t.Helper()
	assert.Equal(ha.t, status, resp.StatusCode)

	var errResp errors.ErrorResponse
	require.NoError(ha.t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(ha.t, code, errResp.Error.Code)
	assert.NotEmpty(ha.t, errResp.Error.Message)
	assert.NotEmpty(ha.t, errResp.Error.Timestamp)
	return errResp.Error
}

// SecurityHeaders asserts the headers every API response carries
func (ha *HTTPAssertions) SecurityHeaders(resp *http.Response) {
	ha.t.Helper()
	assert.Equal(ha.t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(ha.t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(ha.t, resp.Header.Get("Content-Security-Policy"))
	assert.NotEmpty(ha.t, resp.Header.Get("Referrer-Policy"))
}

// DatabaseAssertions provides database state assertion methods
type DatabaseAssertions struct {
	t  *testing.T
	db *gorm.DB
}

// NewDatabaseAssertions creates a new database assertions helper
func NewDatabaseAssertions(t *testing.T, db *gorm.DB) *DatabaseAssertions {
	return &DatabaseAssertions{t: t, db: db}
}

// RecordCount asserts the number of rows in table matching the condition
func (da *DatabaseAssertions) RecordCount(table string, expected int64, query string, args ...interface{}) {
	da.t.Helper()
	var count int64
	tx := da.db.Table(table)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(da.t, tx.Count(&count).Error)
	assert.Equal(da.t, expected, count, "rows in %s", table)
}
