package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/runner/runners"
)

var tests = []string{"local.memory", "local.local"}

// Tests to ensure presets are properly specified and that they parse correctly
func TestGettingConfigurations(t *testing.T) {
	for _, configSelector := range tests {
		_, err := GetConfig(configSelector)
		assert.Nil(t, err, fmt.Sprintf("error getting scheduler config.  %s", err))
	}

	selector := "invalid.selector"
	config, err := GetConfig(selector)
	assert.NotNil(t, err, fmt.Sprintf("configuration returned for %s: %s", selector, config))
}

// Preset values are merged onto the default sections.
func TestCreatingConfigStruct(t *testing.T) {
	config, err := GetConfig("local.memory")
	require.NoError(t, err)
	assert.Equal(t, runners.Sim, config.Runner.Type)
	assert.Equal(t, 4, config.Runner.CPUCores)
	assert.Equal(t, "16GB", config.Runner.MemorySize)
	assert.Equal(t, []string{"sleep 100", "complete 0"}, config.Runner.JobCommand)
	assert.Equal(t, "Klever Scheduler memory", config.Broker.Queue)

	assert.Equal(t, "localhost", config.Broker.Host)
	assert.Equal(t, 5672, config.Broker.Port)
	assert.Equal(t, time.Second, config.Broker.ReceiveTimeout)
	assert.Equal(t, 30*time.Second, config.Broker.DialTimeout)
	assert.Equal(t, 500*time.Millisecond, config.Scheduler.IterationPeriod)
	assert.Equal(t, 10, config.Scheduler.ProgressPollEvery)
	assert.Equal(t, 10*time.Second, config.Scheduler.ReinitBackoff)
	assert.Equal(t, 5, config.Coordination.MaxRetries)
	assert.Equal(t, 50.0, config.Coordination.RequestsPerSecond)
	assert.Equal(t, "localhost:9091", config.Admin.HTTPAddr)
	assert.Equal(t, 15*time.Second, config.Admin.StatsLatch)
	assert.False(t, config.Scheduler.Production)
}

func TestLoad_InlineJSON(t *testing.T) {
	config, err := Load(`{"Scheduler": {"Production": true, "IterationPeriod": "2s"}, "Broker": {"Queue": "Q"}}`)
	require.NoError(t, err)
	assert.True(t, config.Scheduler.Production)
	assert.Equal(t, 2*time.Second, config.Scheduler.IterationPeriod)
	assert.Equal(t, "Q", config.Broker.Queue)
	assert.Equal(t, 10, config.Scheduler.ProgressPollEvery)
	assert.Equal(t, runners.Local, config.Runner.Type)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Broker:
  Host: broker.example.org
  Queue: verification
Coordination:
  URL: https://bridge.example.org/
  User: manager
Runner:
  WorkDir: /var/lib/klever
  MemorySize: 32GB
  CPUModel: Xeon
  TaskCommand: [decide-task, "{id}"]
  Tools:
    cpachecker: /opt/cpachecker/scripts/cpa.sh
`), 0644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "broker.example.org", config.Broker.Host)
	assert.Equal(t, "verification", config.Broker.Queue)
	assert.Equal(t, "manager", config.Coordination.User)
	assert.Equal(t, "/var/lib/klever", config.Runner.WorkDir)
	assert.Equal(t, "32GB", config.Runner.MemorySize)
	assert.Equal(t, "Xeon", config.Runner.CPUModel)
	assert.Equal(t, []string{"decide-task", "{id}"}, config.Runner.TaskCommand)
	assert.Equal(t, map[string]string{"cpachecker": "/opt/cpachecker/scripts/cpa.sh"}, config.Runner.Tools)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("KLEVER_SCHED_BROKER_HOST", "rabbit")
	t.Setenv("KLEVER_SCHED_SCHEDULER_PRODUCTION", "true")
	t.Setenv("KLEVER_SCHED_SCHEDULER_REINITBACKOFF", "1m")
	t.Setenv("KLEVER_SCHED_RUNNER_CPUCORES", "2")

	config, err := GetConfig("local.local")
	require.NoError(t, err)
	assert.Equal(t, "rabbit", config.Broker.Host)
	assert.True(t, config.Scheduler.Production)
	assert.Equal(t, time.Minute, config.Scheduler.ReinitBackoff)
	assert.Equal(t, 2, config.Runner.CPUCores)
	assert.Equal(t, "8GB", config.Runner.MemorySize)
}

func TestValidate(t *testing.T) {
	_, err := Load(`{"Broker": {"Queue": "", "Port": 0}, "Runner": {"Type": "cloud"}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broker.Queue is empty")
	assert.Contains(t, err.Error(), "Broker.Port must be positive")
	assert.Contains(t, err.Error(), `unknown Runner.Type "cloud"`)
}

func TestConversions(t *testing.T) {
	config, err := Load(`{"Broker": {"Host": "h", "Queue": "q", "ReceiveTimeout": "250ms"}, "Coordination": {"URL": "http://c/", "Password": "p"}}`)
	require.NoError(t, err)

	sc := config.SchedulerConfiguration()
	assert.Equal(t, 250*time.Millisecond, sc.ReceiveTimeout)
	assert.Equal(t, 500*time.Millisecond, sc.IterationPeriod)

	bc := config.BrokerConfig()
	assert.Equal(t, "h", bc.Host)
	assert.Equal(t, "q", bc.Queue)
	assert.Equal(t, 30*time.Second, bc.DialTimeout)

	cc := config.CoordinationConfig()
	assert.Equal(t, "http://c/", cc.URL)
	assert.Equal(t, "p", cc.Password)
	assert.Equal(t, 30*time.Second, cc.Timeout)

	assert.NotContains(t, config.String(), "Password: p")
}
