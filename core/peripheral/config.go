package peripheral

// Config holds configuration for the peripheral network.
type Config struct {
	// Driver selects the network implementation (memory, remote).
	Driver string `mapstructure:"driver" default:"remote"`
	// Endpoint is the base URL of the peripheral bridge.
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:7000"`
	// ApiKey is sent as X-API-Key to the bridge when set.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds a single bridge call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// SeedFile is a JSON layout loaded by the memory driver.
	SeedFile string `mapstructure:"seed_file" default:""`
}

const (
	DriverMemory = "memory"
	DriverRemote = "remote"
)
