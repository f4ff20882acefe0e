package runners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/runner/local"
)

func TestNew(t *testing.T) {
	cfg := Config{Config: local.Config{MemorySize: "1GB", JobCommand: []string{"complete 0"}, TaskCommand: []string{"complete 0"}}}
	for _, typ := range []string{"", Local, Sim} {
		cfg.Type = typ
		r, err := New(cfg, nil)
		require.NoError(t, err, typ)
		assert.Equal(t, local.SchedulerType, r.SchedulerType())
		assert.NoError(t, r.Init())
	}

	cfg.Type = "openstack"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}
