package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceKey(t *testing.T) {
	inst := &ServiceInstance{Name: "storefront", Host: "10.0.0.5", Port: 50052}
	assert.Equal(t, "/services/storefront/10.0.0.5:50052", instanceKey("/services/", inst))
	assert.Equal(t, "10.0.0.5:50052", inst.Addr())
}

func TestParseInstance(t *testing.T) {
	inst, err := parseInstance("storefront", "localhost:50052")
	require.NoError(t, err)
	assert.Equal(t, "localhost", inst.Host)
	assert.Equal(t, 50052, inst.Port)

	inst, err = parseInstance("storefront", "[::1]:9000")
	require.NoError(t, err)
	assert.Equal(t, "::1", inst.Host)

	_, err = parseInstance("storefront", "localhost")
	assert.Error(t, err)
	_, err = parseInstance("storefront", "localhost:http")
	assert.Error(t, err)
}
