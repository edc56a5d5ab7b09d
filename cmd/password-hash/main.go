// Command password-hash prints a bcrypt hash for ADMIN_PASSWORD_HASH.
//
//	password-hash 'plain password'
//	echo -n 'plain password' | password-hash
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	adminauthsvc "github.com/johnlatif16/king-store-esport/internal/services/adminauth"
)

func main() {
	password, err := readPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	hash, err := adminauthsvc.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func readPassword() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return "", fmt.Errorf("password is empty")
	}
	return line, nil
}
