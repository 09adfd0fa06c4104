// Package persistence contains helpers shared by repository implementations.
package persistence

import (
	"encoding/base64"
	"strconv"
	"strings"

	"example.com/ipaq/internal/domain"
)

// EncodeCursor serialises the cursor to a string token.
func EncodeCursor(c *domain.Cursor) string {
	if c == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(c.Position)))
}

// DecodeCursor parses the encoded cursor token.
func DecodeCursor(token string) (*domain.Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	position, err := strconv.Atoi(string(decoded))
	if err != nil {
		return nil, err
	}
	return &domain.Cursor{Position: position}, nil
}
