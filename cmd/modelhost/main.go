// Command modelhost loads WebAssembly models from a directory and lists or runs them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fornjot/modelhost/domain/errors"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		detail := errors.ToErrorDetail(err)
		fmt.Fprintf(stderr, "Error: %s\n", detail.Message)
		return 1
	}
	return 0
}
