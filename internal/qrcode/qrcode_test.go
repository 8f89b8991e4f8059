package qrcode_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WooodHead/blog-be-next/internal/qrcode"
)

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri, err := qrcode.DataURI("otpauth://totp/Yancey%20Inc.:a@x.com?secret=ABCDEFGH")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	payload := strings.TrimPrefix(uri, "data:image/png;base64,")
	png, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestDataURIEmptyContent(t *testing.T) {
	t.Parallel()

	_, err := qrcode.DataURI("   ")
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}
