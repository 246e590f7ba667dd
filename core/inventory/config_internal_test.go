package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ParallelSettings(t *testing.T) {
	cfg := Config{Parallel: true, TransferThreads: 3, ScanThreads: 0, BatchSize: -1}

	assert.Equal(t, ParallelSettings{
		Enabled:         true,
		TransferThreads: 3,
		ScanThreads:     16,
		BatchSize:       32,
	}, cfg.parallelSettings())

	cfg.Parallel = false
	assert.False(t, cfg.parallelSettings().Enabled)
	assert.False(t, New(nil, nil, cfg, nil, nil).Parallel().Enabled)
}
