package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/stacktable/internal/core"
)

// maxLineSize bounds a single pasted line.
const maxLineSize = 4 * 1024 * 1024

// ReadPasted reads lines from r until two consecutive blank lines or EOF.
// Blank lines are not kept. Lines are returned joined by "\n".
func ReadPasted(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(core.NewInputReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	blanks := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks >= 2 {
				break
			}
			continue
		}
		blanks = 0
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.Join(lines, "\n"), nil
}
