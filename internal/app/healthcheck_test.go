package app

import (
	"net/http"
	"testing"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.executeRequest(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeJSON[api.HealthcheckResponse](t, rr)
	assert.Equal(t, "UP", resp.Status)
	assert.Equal(t, "test", resp.SystemInfo.Environment)
}
