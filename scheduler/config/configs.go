package config

// Presets available to Load by name. Every section of "default" is the base
// that the selected preset, a JSON text or a config file is merged onto.
var Presets = map[string]string{
	"default":      defaultConfig,
	"local.local":  localLocal,
	"local.memory": localMemory,
}

const defaultConfig = `{
	"Broker": {
		"Host": "localhost",
		"Port": 5672,
		"User": "guest",
		"Password": "guest",
		"VHost": "/",
		"Queue": "Klever Scheduler",
		"ReceiveTimeout": "1s",
		"DialTimeout": "30s"
	},
	"Coordination": {
		"URL": "http://localhost:8998",
		"User": "",
		"Password": "",
		"Timeout": "30s",
		"MaxRetries": 5,
		"RequestsPerSecond": 50
	},
	"Scheduler": {
		"Production": false,
		"IterationPeriod": "500ms",
		"ProgressPollEvery": 10,
		"ReinitBackoff": "10s"
	},
	"Runner": {
		"Type": "local",
		"AbortTimeout": "0s",
		"WorkDir": "",
		"CPUCores": 0,
		"MemorySize": "",
		"DiskSize": "",
		"CPUModel": "",
		"JobCommand": [],
		"TaskCommand": [],
		"Tools": {}
	},
	"Admin": {
		"HTTPAddr": "localhost:9091",
		"StatsLatch": "15s"
	}
}`

// Runs real processes from a work dir on this host.
const localLocal = `{
	"Broker": {
		"Queue": "Klever Scheduler local"
	},
	"Runner": {
		"Type": "local",
		"WorkDir": ".kleverdata/scheduler",
		"MemorySize": "8GB",
		"DiskSize": "50GB",
		"JobCommand": ["klever-decide-job", "--id", "{id}"],
		"TaskCommand": ["klever-decide-task", "--id", "{id}", "--job", "{job_id}"]
	}
}`

// Simulated processes, for trying the scheduler against a real broker and
// coordination service without verification tools installed.
const localMemory = `{
	"Broker": {
		"Queue": "Klever Scheduler memory"
	},
	"Runner": {
		"Type": "sim",
		"CPUCores": 4,
		"MemorySize": "16GB",
		"JobCommand": ["sleep 100", "complete 0"],
		"TaskCommand": ["sleep 50", "complete 0"]
	}
}`
