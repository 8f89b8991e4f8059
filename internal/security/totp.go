package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// RFC 6238 standard parameters.
const (
	totpDigits = 6
	totpPeriod = 30
)

var (
	ErrInvalidTOTPSecret = errors.New("invalid totp secret")
	ErrInvalidTOTPCode   = errors.New("invalid totp code format")

	secretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")
	totpCodeRegex  = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, totpDigits))

	b32 = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// GenerateTOTPSecret returns a fresh Base32-encoded shared secret.
// 160 bits per the RFC 4226 recommendation.
func GenerateTOTPSecret() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	return b32.EncodeToString(secret), nil
}

// ProvisioningURI builds the otpauth:// URI an authenticator app scans
// to register the account, following the Key Uri Format specification.
func ProvisioningURI(secret, accountName, issuer string) (string, error) {
	if !secretKeyRegex.MatchString(secret) {
		return "", ErrInvalidTOTPSecret
	}
	if accountName == "" || issuer == "" {
		return "", errors.New("account name and issuer required")
	}

	label := fmt.Sprintf("%s:%s", url.PathEscape(issuer), url.PathEscape(accountName))

	query := url.Values{}
	query.Set("secret", secret)
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", totpDigits))
	query.Set("period", fmt.Sprintf("%d", totpPeriod))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// VerifyTOTP checks a presented code against the shared secret,
// accepting the previous, current and next 30-second windows to absorb
// clock drift between client and server.
func VerifyTOTP(secret, code string) (bool, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretKeyRegex.MatchString(secret) {
		return false, ErrInvalidTOTPSecret
	}

	key, err := b32.DecodeString(secret)
	if err != nil {
		return false, fmt.Errorf("decode totp secret: %w", err)
	}

	code = strings.TrimSpace(code)
	if !totpCodeRegex.MatchString(code) {
		return false, ErrInvalidTOTPCode
	}

	counter := time.Now().Unix() / totpPeriod
	for i := int64(-1); i <= 1; i++ {
		if fmt.Sprintf("%06d", hotp(key, counter+i, totpDigits)) == code {
			return true, nil
		}
	}

	return false, nil
}

// GenerateTOTPCode computes the code for the window containing t.
func GenerateTOTPCode(secret string, t time.Time) (string, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretKeyRegex.MatchString(secret) {
		return "", ErrInvalidTOTPSecret
	}

	key, err := b32.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decode totp secret: %w", err)
	}

	return fmt.Sprintf("%06d", hotp(key, t.Unix()/totpPeriod, totpDigits)), nil
}

// hotp implements the RFC 4226 HMAC-based one-time password algorithm.
func hotp(key []byte, counter int64, digits int) int {
	// Counter is hashed as a big-endian 8-byte value.
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes)
	hash := mac.Sum(nil)

	// Dynamic truncation: low 4 bits of the last byte pick the offset,
	// MSB cleared to keep the value positive.
	offset := hash[len(hash)-1] & 0x0f
	code := (int(hash[offset]&0x7f) << 24) |
		(int(hash[offset+1]&0xff) << 16) |
		(int(hash[offset+2]&0xff) << 8) |
		int(hash[offset+3]&0xff)

	return code % int(math.Pow10(digits))
}
