package uniuri

import (
	"crypto/rand"
	"strings"
)

const (
	// StdLen is the length of New: ~95 bits of entropy over StdChars.
	StdLen = 16
	// SKULen is the length of the random part of a generated SKU.
	SKULen = 8
	// SKUPrefix starts every generated SKU.
	SKUPrefix = "SKU-"

	byteRange = 256
)

var (
	// StdChars is the alphabet of New and FileName.
	StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")
	// UpperChars is the alphabet of SKU.
	UpperChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
)

// New returns a random string of StdLen characters from StdChars.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns a random string of length characters from StdChars.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// SKU returns a generated stock keeping unit such as "SKU-4KQ7ZP2M".
func SKU() string {
	return SKUPrefix + NewLenChars(SKULen, UpperChars)
}

// FileName returns a random file name keeping ext, e.g. FileName(".PNG") -> "q3...Zk.png".
// ext may be given with or without the leading dot.
func FileName(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return New()
	}

	return New() + "." + ext
}

// NewLenChars returns a random string of length characters taken from chars.
// chars must hold between 2 and 256 entries.
func NewLenChars(length int, chars []byte) string {
	if length <= 0 {
		return ""
	}

	clen := len(chars)
	if clen < 2 || clen > byteRange {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	// bytes above limit are dropped so every char is equally likely
	limit := byteRange - (byteRange % clen)

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			if int(rb) >= limit {
				continue
			}

			out = append(out, chars[int(rb)%clen])
			if len(out) == length {
				break
			}
		}
	}

	return string(out)
}
