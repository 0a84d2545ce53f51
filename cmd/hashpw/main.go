// Command hashpw prints an argon2id hash for an admin password, using the
// same parameters as the ledger API. Put the output in ADMIN_CREDENTIALS as
// email:hash.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	password, err := readPassword(os.Args[1:])
	if err != nil {
		slog.Error("failed to read password", "error", err)
		os.Exit(1)
	}

	a := cfg.Auth.Argon2
	hasher := auth.Hasher{
		Time:       uint32(a.Time),
		MemoryKB:   uint32(a.MemoryKB),
		Threads:    uint8(a.Threads),
		KeyLength:  uint32(a.KeyLength),
		SaltLength: a.SaltLength,
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// readPassword takes the first argument, or the first line of stdin
func readPassword(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("no password on stdin: %w", err)
		}
		return "", fmt.Errorf("empty password")
	}
	return line, nil
}
