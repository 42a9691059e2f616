package system

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitResourceLimits(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	// Must not panic whatever the current limits are.
	InitResourceLimits(log)
}

func TestCurrentUsage(t *testing.T) {
	u, err := CurrentUsage()
	if err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}

	if u.ProcessRSS == 0 {
		t.Error("Expected non-zero RSS for the running test")
	}
	if u.HostTotal < u.ProcessRSS {
		t.Errorf("host total %d is below process RSS %d", u.HostTotal, u.ProcessRSS)
	}
	t.Logf("RSS: %d bytes, host used: %.1f%%", u.ProcessRSS, u.HostUsedPercent)
}
