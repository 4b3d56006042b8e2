package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor sends one command line to the server and returns the reply.
type Executor interface {
	Execute(cmd string) (string, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	executor  Executor
	completer *Completer
	history   *History
}

// New creates a new REPL reading from stdin and writing to stdout.
func New(executor Executor) *REPL {
	return &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		executor:  executor,
		completer: NewCompleter(),
		history:   NewHistory(),
	}
}

// NewWithIO creates a REPL with explicit input and output streams.
func NewWithIO(executor Executor, input io.Reader, output io.Writer) *REPL {
	r := New(executor)
	r.input = input
	r.output = output
	return r
}

// Run starts the REPL loop. It returns when the input is exhausted or
// the user quits.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer func() { _ = r.history.Save() }()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, "minikv> ")

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		}

		reply, err := r.executor.Execute(line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(r.output, reply)

		// The server closes the connection after BYE.
		if strings.ToUpper(strings.Fields(line)[0]) == "QUIT" {
			return nil
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	fmt.Fprintln(r.output, "  SET <key> <value>  Store a value")
	fmt.Fprintln(r.output, "  GET <key>          Retrieve a value")
	fmt.Fprintln(r.output, "  DEL <key>          Remove a key")
	fmt.Fprintln(r.output, "  STATS              Show store statistics")
	fmt.Fprintln(r.output, "  KEYS               List all keys")
	fmt.Fprintln(r.output, "  PING               Check server liveness")
	fmt.Fprintln(r.output, "  QUIT               Close the connection")
	fmt.Fprintln(r.output, "  help, exit, quit")
}
