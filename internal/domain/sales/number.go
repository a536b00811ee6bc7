package sales

import (
	"crypto/rand"
	"fmt"
	"time"
)

const numberSuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateDocumentNumber builds a document number of the form
// PREFIX-YYYYMMDD-XXXXXX with a random six-character suffix. Uniqueness is
// not guaranteed here; the persistence layer enforces it with a unique
// constraint. Repositories prefer their sequential generators and fall back
// to this helper.
func GenerateDocumentNumber(prefix string) string {
	suffix := make([]byte, 6)
	random := make([]byte, 6)
	if _, err := rand.Read(random); err != nil {
		// entropy source unavailable, use a timestamp suffix
		return fmt.Sprintf("%s-%s-%06d", prefix, time.Now().Format("20060102"), time.Now().UnixNano()%1000000)
	}
	for i, b := range random {
		suffix[i] = numberSuffixAlphabet[int(b)%len(numberSuffixAlphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), string(suffix))
}
