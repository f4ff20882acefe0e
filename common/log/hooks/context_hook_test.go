package hooks

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestContextHookAddsCaller(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	logger.Out = &buf
	logger.Formatter = &log.TextFormatter{DisableColors: true, DisableTimestamp: true}
	logger.AddHook(NewContextHook())

	logger.WithFields(log.Fields{"jobID": "J1"}).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "context_hook_test.go:")
	assert.Contains(t, out, "jobID=J1")
}
