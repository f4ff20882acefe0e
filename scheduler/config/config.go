// Package config assembles the scheduler's configuration from a named preset,
// a JSON text or a config file, plus KLEVER_SCHED_* environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ldv-klever/klever-sub005/runner/runners"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/ingest"
	"github.com/ldv-klever/klever-sub005/scheduler/server"
)

// EnvPrefix prefixes environment overrides, e.g. KLEVER_SCHED_BROKER_HOST.
const EnvPrefix = "KLEVER_SCHED"

type Config struct {
	Broker       BrokerConfig
	Coordination CoordinationConfig
	Scheduler    SchedulerConfig
	Runner       runners.Config
	Admin        AdminConfig
}

func (c Config) String() string {
	return fmt.Sprintf("\n%s\n%s\n%s\nRunnerConfig: %+v\n%s", c.Broker, c.Coordination, c.Scheduler, c.Runner, c.Admin)
}

type BrokerConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	VHost          string
	Queue          string
	ReceiveTimeout time.Duration
	DialTimeout    time.Duration
}

func (b BrokerConfig) String() string {
	return fmt.Sprintf("BrokerConfig: Host: %s, Port: %d, User: %s, VHost: %s, Queue: %q, ReceiveTimeout: %s, DialTimeout: %s",
		b.Host, b.Port, b.User, b.VHost, b.Queue, b.ReceiveTimeout, b.DialTimeout)
}

type CoordinationConfig struct {
	URL               string
	User              string
	Password          string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

func (c CoordinationConfig) String() string {
	return fmt.Sprintf("CoordinationConfig: URL: %s, User: %s, Timeout: %s, MaxRetries: %d, RequestsPerSecond: %g",
		c.URL, c.User, c.Timeout, c.MaxRetries, c.RequestsPerSecond)
}

type SchedulerConfig struct {
	Production        bool
	IterationPeriod   time.Duration
	ProgressPollEvery int
	ReinitBackoff     time.Duration
}

func (s SchedulerConfig) String() string {
	return fmt.Sprintf("SchedulerConfig: Production: %t, IterationPeriod: %s, ProgressPollEvery: %d, ReinitBackoff: %s",
		s.Production, s.IterationPeriod, s.ProgressPollEvery, s.ReinitBackoff)
}

type AdminConfig struct {
	HTTPAddr   string
	StatsLatch time.Duration
}

func (a AdminConfig) String() string {
	return fmt.Sprintf("AdminConfig: HTTPAddr: %s, StatsLatch: %s", a.HTTPAddr, a.StatsLatch)
}

// GetConfigText returns the JSON text of a preset.
func GetConfigText(selector string) ([]byte, error) {
	text, ok := Presets[selector]
	if !ok {
		keys := make([]string, 0, len(Presets))
		for k := range Presets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("invalid configuration %s, supported values are %v", selector, keys)
	}
	return []byte(text), nil
}

// Load reads the default preset, then merges source onto it. source is a preset
// name, an inline JSON object, or the path of a JSON/YAML/TOML file. Environment
// variables override both.
func Load(source string) (*Config, error) {
	v, err := newViper(source)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// GetConfig is Load for presets only.
func GetConfig(selector string) (*Config, error) {
	if _, err := GetConfigText(selector); err != nil {
		return nil, err
	}
	return Load(selector)
}

func newViper(source string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	defaults, _ := GetConfigText("default")
	if err := v.ReadConfig(strings.NewReader(string(defaults))); err != nil {
		return nil, errors.Wrap(err, "couldn't parse the default config")
	}

	switch {
	case source == "" || source == "default":
	case Presets[source] != "":
		if err := v.MergeConfig(strings.NewReader(Presets[source])); err != nil {
			return nil, errors.Wrapf(err, "couldn't parse preset %s", source)
		}
	case strings.HasPrefix(strings.TrimSpace(source), "{"):
		if err := v.MergeConfig(strings.NewReader(source)); err != nil {
			return nil, errors.Wrap(err, "couldn't parse inline config")
		}
	default:
		v.SetConfigFile(source)
		if ext := strings.TrimPrefix(filepath.Ext(source), "."); ext != "" {
			v.SetConfigType(ext)
		}
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "couldn't read config file %s", source)
		}
		log.Infof("Merged config file %s", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "couldn't decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks what the scheduler can't start without. Runner limits are
// checked by Runner.Init.
func (c *Config) Validate() error {
	var problems []string
	if c.Broker.Host == "" {
		problems = append(problems, "Broker.Host is empty")
	}
	if c.Broker.Port <= 0 {
		problems = append(problems, "Broker.Port must be positive")
	}
	if c.Broker.Queue == "" {
		problems = append(problems, "Broker.Queue is empty")
	}
	if c.Coordination.URL == "" {
		problems = append(problems, "Coordination.URL is empty")
	}
	if c.Scheduler.ProgressPollEvery < 0 {
		problems = append(problems, "Scheduler.ProgressPollEvery must not be negative")
	}
	if c.Scheduler.IterationPeriod < 0 || c.Scheduler.ReinitBackoff < 0 {
		problems = append(problems, "Scheduler durations must not be negative")
	}
	switch c.Runner.Type {
	case "", runners.Local, runners.Sim:
	default:
		problems = append(problems, fmt.Sprintf("unknown Runner.Type %q", c.Runner.Type))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) SchedulerConfiguration() server.SchedulerConfiguration {
	return server.SchedulerConfiguration{
		Production:        c.Scheduler.Production,
		IterationPeriod:   c.Scheduler.IterationPeriod,
		ProgressPollEvery: c.Scheduler.ProgressPollEvery,
		ReinitBackoff:     c.Scheduler.ReinitBackoff,
		ReceiveTimeout:    c.Broker.ReceiveTimeout,
	}
}

func (c *Config) BrokerConfig() ingest.BrokerConfig {
	return ingest.BrokerConfig{
		Host:        c.Broker.Host,
		Port:        c.Broker.Port,
		User:        c.Broker.User,
		Password:    c.Broker.Password,
		VHost:       c.Broker.VHost,
		Queue:       c.Broker.Queue,
		DialTimeout: c.Broker.DialTimeout,
	}
}

func (c *Config) CoordinationConfig() coordination.Config {
	return coordination.Config{
		URL:               c.Coordination.URL,
		User:              c.Coordination.User,
		Password:          c.Coordination.Password,
		Timeout:           c.Coordination.Timeout,
		MaxRetries:        c.Coordination.MaxRetries,
		RequestsPerSecond: c.Coordination.RequestsPerSecond,
	}
}
