// cmd/contactctl/main.go
//
// contactctl runs the contact pipeline from a terminal: the same validation,
// busy gate, submitter modes, and notifications the landing page uses, with
// lipgloss-styled lines in place of the DOM.
//
//	contactctl validate --file msg.yaml
//	contactctl submit --name "Ada Lovelace" --email ada@example.com \
//	    --phone 5551234567 --message "I would like a quote please." \
//	    --endpoint https://example.com/api/contact --mode acknowledged
//
// Exit status is 1 when the input is invalid or the submission fails.  Any
// other error (bad flags, unknown mode, unreadable file) is printed to stderr.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the exit status.  Invalid input
// and failed submissions were already reported by the console collaborators;
// every other error is printed here.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errInvalid) && !errors.Is(err, errFailed) {
		fmt.Fprintf(stderr, "contactctl: %v\n", err)
	}
	return 1
}
