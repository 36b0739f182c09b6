package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr              string
	DeliveryTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("PUSHGRAM_ADDR"),
		},
		&cli.DurationFlag{
			Name:        "delivery-timeout",
			Usage:       "Timeout of a single notification delivery, retries included",
			Value:       10 * time.Second,
			Destination: &c.DeliveryTimeout,
			Sources:     cli.EnvVars("PUSHGRAM_DELIVERY_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:        "read-header-timeout",
			Usage:       "HTTP read header timeout",
			Value:       15 * time.Second,
			Destination: &c.ReadHeaderTimeout,
			Sources:     cli.EnvVars("PUSHGRAM_READ_HEADER_TIMEOUT"),
		},
	}
}
