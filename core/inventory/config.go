package inventory

// Config holds configuration for the inventory cache and the transfer engine.
type Config struct {
	// StorageTags are the container type tags classified as storage.
	StorageTags []string `mapstructure:"storage_tags" default:"storage"`
	// Exclude lists container name patterns (path.Match syntax) never classified as storage.
	Exclude []string `mapstructure:"exclude" default:""`
	// TransferThreads bounds concurrent transfer calls per batch.
	TransferThreads int `mapstructure:"transfer_threads" default:"8"`
	// ScanThreads bounds concurrent list calls during a full scan.
	ScanThreads int `mapstructure:"scan_threads" default:"16"`
	// BatchSize is the number of overflow transfers planned per engine run.
	BatchSize int `mapstructure:"batch_size" default:"32"`
	// Parallel enables concurrent execution. When false everything runs sequentially.
	Parallel bool `mapstructure:"parallel" default:"true"`
	// RetryLimit is the number of retries after a zero-progress transfer call.
	RetryLimit int `mapstructure:"retry_limit" default:"2"`
	// RetryDelayMs is the fixed wait between retries.
	RetryDelayMs int `mapstructure:"retry_delay_ms" default:"50"`
	// DefaultMaxStack is used when a container cannot report an item's max stack.
	DefaultMaxStack int `mapstructure:"default_max_stack" default:"64"`
}

// ParallelSettings is the runtime-adjustable subset of Config.
type ParallelSettings struct {
	Enabled         bool `json:"enabled"`
	TransferThreads int  `json:"transferThreads"`
	ScanThreads     int  `json:"scanThreads"`
	BatchSize       int  `json:"batchSize"`
}

// parallelSettings extracts the parallel settings from the configuration.
func (c Config) parallelSettings() ParallelSettings {
	return ParallelSettings{
		Enabled:         c.Parallel,
		TransferThreads: c.TransferThreads,
		ScanThreads:     c.ScanThreads,
		BatchSize:       c.BatchSize,
	}.normalize(ParallelSettings{TransferThreads: 8, ScanThreads: 16, BatchSize: 32})
}

// normalize replaces non-positive values with those of fallback.
func (p ParallelSettings) normalize(fallback ParallelSettings) ParallelSettings {
	if p.TransferThreads < 1 {
		p.TransferThreads = fallback.TransferThreads
	}
	if p.ScanThreads < 1 {
		p.ScanThreads = fallback.ScanThreads
	}
	if p.BatchSize < 1 {
		p.BatchSize = fallback.BatchSize
	}
	return p
}
