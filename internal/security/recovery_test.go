package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WooodHead/blog-be-next/internal/security"
)

func TestGenerateRecoveryCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "standard batch", count: security.RecoveryCodeBatchSize},
		{name: "single code", count: 1},
		{name: "zero codes", count: 0, wantErr: true},
		{name: "negative count", count: -3, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			codes, err := security.GenerateRecoveryCodes(tt.count)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, codes)
				return
			}

			require.NoError(t, err)
			assert.Len(t, codes, tt.count)

			seen := make(map[string]bool, len(codes))
			for _, code := range codes {
				assert.Regexp(t, "^[0-9A-F]{16}$", code)
				assert.False(t, seen[code], "duplicate code in batch")
				seen[code] = true
			}
		})
	}
}
