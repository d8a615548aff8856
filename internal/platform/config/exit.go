package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf reports a fatal command failure as one line on stderr and exits
// with status 1. Each main prefixes the binary name, as in "api: ...".
func Exitf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(stderr, msg)
	exit(1)
}
