package workerpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProxyAuth(t *testing.T) {
	cfg, err := ParseProxyAuth("geo.iproyal.com:12321:myuser:mypass")
	require.NoError(t, err)
	assert.Equal(t, "geo.iproyal.com", cfg.Host)
	assert.Equal(t, "12321", cfg.Port)
	assert.Equal(t, "myuser", cfg.Username)
	assert.Equal(t, "mypass", cfg.BasePassword)
}

func TestParseProxyAuthRejectsMalformed(t *testing.T) {
	_, err := ParseProxyAuth("not-enough-parts")
	assert.Error(t, err)
}

func TestStickySessionPasswordIsDeterministic(t *testing.T) {
	a := stickySessionPassword("basepass", "worker-1")
	b := stickySessionPassword("basepass", "worker-1")
	assert.Equal(t, a, b)
	assert.Equal(t, "basepass_session-worker-1_lifetime-168h", a)

	c := stickySessionPassword("basepass", "worker-2")
	assert.NotEqual(t, a, c)
}
