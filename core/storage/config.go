package storage

// Config holds the S3/MinIO connection used by the object store driver.
type Config struct {
	// Endpoint may carry an http(s):// scheme; it is stripped before dialing.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket holds one JSON object per cached container.
	Bucket string `mapstructure:"bucket" default:"inventory"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
