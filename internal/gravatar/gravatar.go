// Package gravatar derives avatar URLs from email addresses.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const baseURL = "//www.gravatar.com/avatar/"

// URL returns a 200px, PG rated avatar that falls back to the mystery-man image.
func URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	query := url.Values{}
	query.Set("s", "200")
	query.Set("r", "pg")
	query.Set("d", "mm")
	return baseURL + hex.EncodeToString(sum[:]) + "?" + query.Encode()
}
