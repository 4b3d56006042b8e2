package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/minikv/minikv-go/internal/cli/output"
)

// SetCommand stores a value under a key.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key",
		ArgsUsage: "KEY VALUE...",
		Action:    kvSet,
	}
}

// GetCommand retrieves the value for a key.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Retrieve the value for a key",
		ArgsUsage: "KEY",
		Action:    kvGet,
	}
}

// DelCommand removes a key.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Aliases:   []string{"delete"},
		Usage:     "Remove a key",
		ArgsUsage: "KEY",
		Action:    kvDel,
	}
}

// StatsCommand shows store statistics.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show key count and memory usage",
		Action: kvStats,
	}
}

// KeysCommand lists all stored keys.
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:   "keys",
		Usage:  "List all stored keys",
		Action: kvKeys,
	}
}

// PingCommand checks server liveness.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that the server is responding",
		Action: kvPing,
	}
}

func kvSet(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: minikv-cli set KEY VALUE...", 1)
	}
	key := c.Args().Get(0)
	value := strings.Join(c.Args().Slice()[1:], " ")

	reply, err := execute(c, fmt.Sprintf("SET %s %s", key, value))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func kvGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: minikv-cli get KEY", 1)
	}

	reply, err := execute(c, "GET "+c.Args().First())
	if err != nil {
		return err
	}
	if reply == "NULL" {
		return cli.Exit("(nil)", 1)
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func kvDel(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: minikv-cli del KEY", 1)
	}

	reply, err := execute(c, "DEL "+c.Args().First())
	if err != nil {
		return err
	}
	if reply == "NOT FOUND" {
		return cli.Exit(reply, 1)
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}

func kvStats(c *cli.Context) error {
	reply, err := execute(c, "STATS")
	if err != nil {
		return err
	}
	rendered, err := output.RenderStats(reply, outputFormat(c))
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, rendered)
	return nil
}

func kvKeys(c *cli.Context) error {
	reply, err := execute(c, "KEYS")
	if err != nil {
		return err
	}
	rendered, err := output.RenderKeys(reply, outputFormat(c))
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, rendered)
	return nil
}

func kvPing(c *cli.Context) error {
	reply, err := execute(c, "PING")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, reply)
	return nil
}
