package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/constants"
)

// ReferenceCodePattern matches codes produced by GenerateReferenceCode.
var ReferenceCodePattern = regexp.MustCompile(`^` + constants.ReferenceCodePrefix + `-\d{6}-\d{3}$`)

// GenerateReferenceCode builds a client-facing project code in the format CMT-123456-789:
// the last six digits of the creation time in milliseconds, then three random digits.
func GenerateReferenceCode(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	millis := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%06d-%03d", constants.ReferenceCodePrefix, millis, n.Int64()), nil
}
