package config

import (
	"flag"
	"os"
	"time"

	"github.com/samuelireke/hoaxify/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-w int      token validity window, hours
//	-i int      token sweep interval, minutes
//	-l int      generated token length, characters
//	-s string   SMTP host
//	-o int      SMTP port
//	-f string   mail From address
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-i", "-l", "-s", "-o", "-f", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	tokenValidityWindow := fs.Int("w", int(config.TokenValidityWindow.Hours()), "token validity window (in hours)")
	tokenSweepInterval := fs.Int("i", int(config.TokenSweepInterval.Minutes()), "token sweep interval (in minutes)")
	fs.IntVar(&config.TokenLength, "l", config.TokenLength, "token length (in characters)")

	fs.StringVar(&config.SMTPHost, "s", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "o", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail From address")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityWindow = time.Duration(*tokenValidityWindow) * time.Hour
	config.TokenSweepInterval = time.Duration(*tokenSweepInterval) * time.Minute
}
