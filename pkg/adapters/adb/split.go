package adb

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Split breaks a command line into arguments using /bin/sh word-splitting rules.
// Inside double quotes a backslash only escapes '"', '\\', '$', '`' and newline, so the
// `\'` produced by device.EncodeText reaches the device unchanged. No expansion or
// redirection is performed.
func Split(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", line, err)
	}
	return args, nil
}
