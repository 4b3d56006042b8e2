package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/minikv/minikv-go/internal/cli/config"
	"github.com/minikv/minikv-go/internal/cli/connection"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "minikv-cli",
		Usage:   "MiniKV command-line client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SetCommand(),
			GetCommand(),
			DelCommand(),
			StatsCommand(),
			KeysCommand(),
			PingCommand(),
			ReplCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := cliconfig.Load(c.String("config"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			c.App.Metadata["cliConfig"] = cfg
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "MiniKV server address (e.g., localhost:6379)",
			EnvVars: []string{"MINIKV_SERVER"},
			Value:   "127.0.0.1:6379",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Dial and per-command timeout",
			Value:   connection.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format for STATS and KEYS: raw, json, table",
			Value:   "raw",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI config file path (default: ~/.minikv/cli.yaml)",
		},
	}
}

// cliConfig returns the loaded CLI configuration, or defaults when the
// Before hook has not run (direct action calls in tests).
func cliConfig(c *cli.Context) *cliconfig.CLIConfig {
	if cfg, ok := c.App.Metadata["cliConfig"].(*cliconfig.CLIConfig); ok {
		return cfg
	}
	return cliconfig.Default()
}

// serverAddr resolves the server address: flag or MINIKV_SERVER first,
// then the config file default.
func serverAddr(c *cli.Context) string {
	if c.IsSet("server") {
		return c.String("server")
	}
	if cfg := cliConfig(c); cfg.DefaultServer != "" {
		return cfg.DefaultServer
	}
	return c.String("server")
}

// outputFormat resolves the output format the same way.
func outputFormat(c *cli.Context) string {
	if c.IsSet("output") {
		return c.String("output")
	}
	if cfg := cliConfig(c); cfg.DefaultOutput != "" {
		return cfg.DefaultOutput
	}
	return c.String("output")
}

// newClient builds a connected client from flags and config.
func newClient(c *cli.Context) *connection.Client {
	client := connection.NewClient(serverAddr(c))
	if c.IsSet("timeout") {
		client.SetTimeout(c.Duration("timeout"))
	} else if d := cliConfig(c).Timeout; d > 0 {
		client.SetTimeout(d)
	}
	return client
}

// execute runs one command against the server and returns the reply.
// Replies starting with "ERROR:" become CLI errors with exit code 1.
func execute(c *cli.Context, cmd string) (string, error) {
	client := newClient(c)
	defer client.Close()

	reply, err := client.Execute(cmd)
	if err != nil {
		return "", err
	}
	if len(reply) >= 6 && reply[:6] == "ERROR:" {
		return "", cli.Exit(reply, 1)
	}
	return reply, nil
}
