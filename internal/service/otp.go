package service

import (
	"crypto/rand"
	"fmt"
	"github.com/rookgm/foodorder/internal/validation"
	"math/big"
)

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns random zero-padded 6 digit code
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", validation.OTPLength, n.Int64()), nil
}
