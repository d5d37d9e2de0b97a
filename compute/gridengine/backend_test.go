package gridengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractID(t *testing.T) {
	assert.Equal(t, "12", extractID("Your job 12 (\"job.sh\") has been submitted\n"))
	assert.Equal(t, "", extractID("Unable to run job: denied\n"))
}
