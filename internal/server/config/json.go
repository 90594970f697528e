package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/samuelireke/hoaxify/internal/flagx"
	"github.com/samuelireke/hoaxify/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "168h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr        string         `json:"endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	TokenValidityWindow timex.Duration `json:"token_validity_window"`
	TokenSweepInterval  timex.Duration `json:"token_sweep_interval"`
	TokenLength         int            `json:"token_length"`
	BcryptCost          int            `json:"bcrypt_cost"`
	SMTPHost            string         `json:"smtp_host"`
	SMTPPort            int            `json:"smtp_port"`
	SMTPUser            string         `json:"smtp_user"`
	SMTPPassword        string         `json:"smtp_password"`
	MailFrom            string         `json:"mail_from"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.TokenValidityWindow.Duration != 0 {
		config.TokenValidityWindow = time.Duration(c.TokenValidityWindow.Duration)
	}
	if c.TokenSweepInterval.Duration != 0 {
		config.TokenSweepInterval = time.Duration(c.TokenSweepInterval.Duration)
	}
	if c.TokenLength != 0 {
		config.TokenLength = c.TokenLength
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUser != "" {
		config.SMTPUser = c.SMTPUser
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.MailFrom != "" {
		config.MailFrom = c.MailFrom
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
