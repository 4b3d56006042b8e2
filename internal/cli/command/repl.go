package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/minikv/minikv-go/internal/cli/repl"
)

// ReplCommand starts the interactive shell.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start an interactive shell",
		Action:  runRepl,
	}
}

func runRepl(c *cli.Context) error {
	client := newClient(c)
	if err := client.Connect(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer client.Close()

	fmt.Fprintf(c.App.Writer, "Connected to %s. Type 'help' for commands.\n", c.String("server"))
	return repl.NewWithIO(client, c.App.Reader, c.App.Writer).Run()
}
