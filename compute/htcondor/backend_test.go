package htcondor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractID(t *testing.T) {
	assert.Equal(t, "8", extractID("Submitting job(s).\n1 job(s) submitted to cluster 8.\n"))
	assert.Equal(t, "", extractID("ERROR: Parse error in submit file\n"))
}
