package util

import (
	"bytes"
	"io"
	"os"
)

// EmptyReader returns an io.Reader which is empty and immediately closed.
func EmptyReader() io.Reader {
	return io.NopCloser(bytes.NewReader(nil))
}

// StdinPipe returns stdin when it is piped or redirected, so a vars file
// can be read from "-". Otherwise it returns EmptyReader() instead of
// blocking on a terminal.
func StdinPipe() io.Reader {
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		return os.Stdin
	}
	return EmptyReader()
}
