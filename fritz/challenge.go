package fritz

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Prefix marks the modern challenge format:
// "2$<iter1>$<salt1-hex>$<iter2>$<salt2-hex>". Anything else is the legacy
// MD5 scheme.
const pbkdf2Prefix = "2$"

type ChallengeAlgorithm int

const (
	AlgorithmMD5 ChallengeAlgorithm = iota
	AlgorithmPBKDF2
)

// Challenge is one parsed login challenge. The iteration/salt fields are
// only populated for AlgorithmPBKDF2.
type Challenge struct {
	Raw       string
	Algorithm ChallengeAlgorithm

	Iter1 int
	Salt1 []byte
	Iter2 int
	Salt2 []byte

	// salt2 as spelled in the challenge; the router expects it echoed back
	// verbatim (case included) in the response.
	salt2Hex string
}

// ParseChallenge classifies a raw challenge string and eagerly parses the
// PBKDF2 fields, so a malformed challenge fails here instead of mid-login.
func ParseChallenge(raw string) (Challenge, error) {
	if !strings.HasPrefix(raw, pbkdf2Prefix) {
		return Challenge{Raw: raw, Algorithm: AlgorithmMD5}, nil
	}

	parts := strings.Split(raw, "$")
	if len(parts) != 5 {
		return Challenge{}, fmt.Errorf("%w: want 4 $-delimited fields, got %d", ErrMalformedChallenge, len(parts)-1)
	}
	iter1, err := strconv.Atoi(parts[1])
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: iteration count %q", ErrMalformedChallenge, parts[1])
	}
	salt1, err := hex.DecodeString(parts[2])
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: salt %q", ErrMalformedChallenge, parts[2])
	}
	iter2, err := strconv.Atoi(parts[3])
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: iteration count %q", ErrMalformedChallenge, parts[3])
	}
	salt2, err := hex.DecodeString(parts[4])
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: salt %q", ErrMalformedChallenge, parts[4])
	}

	return Challenge{
		Raw:       raw,
		Algorithm: AlgorithmPBKDF2,
		Iter1:     iter1,
		Salt1:     salt1,
		Iter2:     iter2,
		Salt2:     salt2,
		salt2Hex:  parts[4],
	}, nil
}

// Response computes the proof of password knowledge for this challenge.
// Deterministic; a parsed challenge has no error paths left.
func (c Challenge) Response(password string) string {
	if c.Algorithm == AlgorithmPBKDF2 {
		// Hash twice: once with the static salt, once with the dynamic one.
		hash1 := pbkdf2.Key([]byte(password), c.Salt1, c.Iter1, sha256.Size, sha256.New)
		hash2 := pbkdf2.Key(hash1, c.Salt2, c.Iter2, sha256.Size, sha256.New)
		return c.salt2Hex + "$" + hex.EncodeToString(hash2)
	}

	// The legacy scheme digests "<challenge>-<password>" encoded UTF-16LE,
	// no byte-order mark.
	plain := c.Raw + "-" + password
	units := utf16.Encode([]rune(plain))
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	sum := md5.Sum(buf)
	return c.Raw + "-" + hex.EncodeToString(sum[:])
}
