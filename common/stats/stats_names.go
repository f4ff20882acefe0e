package stats

/*
All metrics collected by the scheduler. Names are relative to the "scheduler" scope.
Suffix conventions: Counter, Gauge, Latency_ms.
*/

const (
	/************************* Scheduler core **************************/
	/*
		number of ticks run
	*/
	SchedStepCounter = "stepCounter"

	/*
		duration of one tick, sleep excluded
	*/
	SchedStepLatency_ms = "stepLatency_ms"

	/*
		number of status messages applied
	*/
	SchedMessagesAppliedCounter = "messagesAppliedCounter"

	/*
		jobs and tasks tracked in memory after a tick
	*/
	SchedTrackedJobsGauge  = "trackedJobsGauge"
	SchedTrackedTasksGauge = "trackedTasksGauge"

	/*
		pending and processing entities after a tick
	*/
	SchedPendingJobsGauge     = "pendingJobsGauge"
	SchedProcessingJobsGauge  = "processingJobsGauge"
	SchedPendingTasksGauge    = "pendingTasksGauge"
	SchedProcessingTasksGauge = "processingTasksGauge"

	/*
		entities started by the admission step
	*/
	SchedJobsStartedCounter  = "jobsStartedCounter"
	SchedTasksStartedCounter = "tasksStartedCounter"

	/*
		terminal outcomes reported to the coordination service
	*/
	SchedJobsFinishedCounter  = "jobsFinishedCounter"
	SchedJobsErroredCounter   = "jobsErroredCounter"
	SchedJobsCancelledCounter = "jobsCancelledCounter"
	SchedTasksErroredCounter  = "tasksErroredCounter"

	/*
		resource limits that failed normalization
	*/
	SchedConfigurationErrorCounter = "configurationErrorCounter"

	/*
		ticks where the node refresh failed and admission was skipped
	*/
	SchedNodesRefreshFailedCounter = "nodesRefreshFailedCounter"

	/*
		fatal tick failures, each one followed by teardown
	*/
	SchedFatalErrorCounter = "fatalErrorCounter"

	/*
		number of full reinitializations
	*/
	SchedReinitCounter = "reinitCounter"

	/*
		milliseconds since the process started
	*/
	SchedUptimeGauge_ms = "schedUptimeGauge_ms"

	/************************* Status ingestor **************************/
	/*
		messages received from the broker
	*/
	IngestReceivedCounter = "receivedCounter"

	/*
		transport errors, each one stops the ingestor
	*/
	IngestTransportErrorCounter = "transportErrorCounter"

	/*
		messages waiting in the hand-off queue
	*/
	IngestQueueLenGauge = "queueLenGauge"

	/************************* Coordination client **************************/
	/*
		requests sent, failed (after retries), and request latency
	*/
	CoordRequestCounter      = "requestCounter"
	CoordRequestErrorCounter = "requestErrorCounter"
	CoordRequestLatency_ms   = "requestLatency_ms"

	/************************* Local runner **************************/
	/*
		processes started by the local runner and those that exited non-zero
	*/
	RunnerProcessStartedCounter = "processStartedCounter"
	RunnerProcessFailedCounter  = "processFailedCounter"

	/*
		reserved capacity
	*/
	RunnerReservedCoresGauge  = "reservedCoresGauge"
	RunnerReservedMemoryGauge = "reservedMemoryGauge"
)
