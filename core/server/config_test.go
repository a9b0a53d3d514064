package server_test

import (
	"testing"
	"time"

	"relation-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Configured", 5, 5 * time.Second},
		{"Zero", 0, 30 * time.Second},
		{"Negative", -1, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ReadTimeoutSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.ReadTimeout())
		})
	}
}

func TestConfig_Address(t *testing.T) {
	c := server.Config{Port: "9090"}
	assert.Equal(t, ":9090", c.Address())
	assert.False(t, c.IsProtected())

	c.ApiKey = "secret"
	assert.True(t, c.IsProtected())
}
