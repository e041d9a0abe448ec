package orchestration

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const passwordLength = 16

// passwordClasses are the character classes the API requires an admin
// password to draw from. A generated password contains at least one
// character of each.
var passwordClasses = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"0123456789",
	"!@#$%&*",
}

// generatePassword returns a random admin password for a server deploy
// when the caller did not supply one. The password is surfaced in the
// operation result because the remote system never reports it back.
func generatePassword() (string, error) {
	all := strings.Join(passwordClasses, "")

	chars := make([]byte, 0, passwordLength)
	for _, class := range passwordClasses {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < passwordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Shuffle so the class-guaranteed characters are not positional.
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

func randomChar(from string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(from))))
	if err != nil {
		return 0, fmt.Errorf("generating password: %w", err)
	}
	return from[n.Int64()], nil
}
