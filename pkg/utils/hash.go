package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// NormalizeText collapses whitespace and lowercases, so that trivially
// different spellings of the same feeding note share one cache key.
func NormalizeText(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}
