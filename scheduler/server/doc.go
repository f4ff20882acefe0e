/*
package server provides the Service that supervises the verification job scheduler.

* Concepts *
Job:
  A unit of verification work. Tracked from its "submitted" status message until it is
  reported finished or failed, cancelled, or corrupted.

Task:
  The unit a Runner actually executes. Belongs to one Job through its JobID, but is
  tracked on its own: tasks may outlive their job locally.

Tick:
  One call to step(): drain status messages, apply them, run maintenance and admission.
  Only the scheduler goroutine touches job and task state, so nothing is locked.

* Logic *
Message application (in arrival order):
  job submitted       pull and normalize configuration, track as Pending, Runner.PrepareJob
  job processing      Pending -> Processing; an untracked id is reported back as not tracked
  job solved          drop tracking
  job failed/cancelled/terminated   fatal desync when still tracked
  job corrupted       Runner.CancelJob with the job's tasks, drop them
  job cancelling      as corrupted, then cancel remotely and report its active tasks cancelled
  task pending        pull and normalize, Runner.PrepareTask, track as Pending
  task processing     Pending -> Processing; fatal desync when untracked
  task finished/error/cancelled     drop tracking

Maintenance:
  Pending entities the Runner already solves become Processing.
  Processing jobs and tasks are checked for results, which are reported and dropped.
  Job progress is forwarded to the Runner every ProgressPollEvery ticks.
  Runner.UpdateTools failures are ignored; when Runner.UpdateNodes fails admission is skipped.

Admission:
  Pending tasks are prepared again, then pending tasks and jobs are sorted by priority
  (lower first, stable) and handed to Runner.Schedule. Jobs are started first. A task is
  reported processing to the coordination service before the Runner is asked to solve it.

Failure:
  Any error other than a bad job or task configuration ends the tick. The Service then stops
  the ingestor, terminates the Runner, reports every tracked job as terminated, and either
  reinitializes after ReinitBackoff (production) or exits.
*/
package server
