package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var ErrEmptyContent = errors.New("qrcode content cannot be empty")

const defaultSize = 256

// DataURI renders the content as a QR code and returns it as a base64
// PNG data URI, ready to drop into an <img src>.
func DataURI(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, defaultSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
