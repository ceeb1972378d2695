package links

import (
	"crypto/rand"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// GeneratedCodeLength is the length of codes picked by the server
	GeneratedCodeLength = 6
	// maxCodeRetries bounds re-draws after a collision
	maxCodeRetries = 10
)

var codeRegex = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// ValidCode reports whether code is 6-8 ASCII letters or digits
func ValidCode(code string) bool {
	return codeRegex.MatchString(code)
}

// randomCode draws GeneratedCodeLength characters uniformly from codeAlphabet
func randomCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, GeneratedCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// IsWebURI reports whether raw is an absolute http or https URL with a host
func IsWebURI(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Host != "" && u.Hostname() != ""
}
