package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

func render(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestOutcomeEmptyResultIsWarning(t *testing.T) {
	w, env := render(t, func(c *gin.Context) {
		Outcome(c, []string{}, appErrors.Clone(appErrors.ErrEmptyResult, "No schedule found for this student."))
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Warning)
	assert.Equal(t, "EMPTY_RESULT", env.Warning.Code)
	assert.Nil(t, env.Error)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestOutcomeNotFoundKeepsStatus(t *testing.T) {
	w, env := render(t, func(c *gin.Context) {
		Outcome(c, nil, appErrors.Clone(appErrors.ErrNotFound, "record set not found"))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Warning)
	assert.Equal(t, "record set not found", env.Warning.Message)
}

func TestOutcomeStoreFailureIsError(t *testing.T) {
	w, env := render(t, func(c *gin.Context) {
		Outcome(c, nil, appErrors.Wrap(fmt.Errorf("dial tcp"), appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "data store unavailable"))
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Nil(t, env.Warning)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STORE_UNAVAILABLE", env.Error.Code)
}
