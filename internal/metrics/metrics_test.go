package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppMetrics_Registered(t *testing.T) {
	reg := NewRegistry()
	m := NewAppMetrics(reg)

	m.FramesSent.WithLabelValues("send_pure_text", "ok").Inc()
	m.LinkUp.Set(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["scoreboard_frames_sent_total"])
	assert.True(t, names["scoreboard_link_up"])
	assert.True(t, names["scoreboard_response_timeouts_total"])
}

func TestHandler_ServesScoreboardMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewAppMetrics(reg)
	m.OperationsTotal.WithLabelValues("add_try", "ok").Inc()

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scoreboard_operations_total{op="add_try",result="ok"} 1`)
}
