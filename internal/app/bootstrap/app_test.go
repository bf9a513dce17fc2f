package bootstrap

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"带密码", "postgres://scoreboard:s3cret@db:5432/scoreboard", "postgres://scoreboard:****@db:5432/scoreboard"},
		{"无密码", "postgres://db:5432/scoreboard", "postgres://db:5432/scoreboard"},
		{"key=value", "host=db user=scoreboard", "host=db user=scoreboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskDSN(tt.dsn))
		})
	}
}

func TestMetricsHandlerIf(t *testing.T) {
	h := http.NotFoundHandler()
	assert.Nil(t, metricsHandlerIf(false, h))
	assert.NotNil(t, metricsHandlerIf(true, h))
}
