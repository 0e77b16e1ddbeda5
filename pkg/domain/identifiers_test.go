package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gesclient/pkg/domain-errors"
)

func TestParseCNI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"accepts leading 1", "1000000000001", ""},
		{"accepts leading 2", "2000000000002", ""},
		{"rejects leading 9", "9999999999999", "cni must start with 1 or 2"},
		{"rejects leading 0", "0123456789012", "cni must start with 1 or 2"},
		{"rejects 12 digits", "100000000000", "cni must contain exactly 13 digits"},
		{"rejects 17 digits", "10000000000000001", "cni must contain exactly 13 digits"},
		{"rejects letters", "10000000000AB", "cni must contain exactly 13 digits"},
		{"rejects surrounding spaces", " 1000000000001", "cni must contain exactly 13 digits"},
		{"rejects arabic-indic digits", "١٠٠٠٠٠٠٠٠٠٠٠١", "cni must contain exactly 13 digits"},
		{"rejects empty", "", "cni must contain exactly 13 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cni, err := ParseCNI(tt.input)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.input, cni.String())
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestSetCNILength(t *testing.T) {
	t.Cleanup(func() { SetCNILength(DefaultCNILength) })

	SetCNILength(17)
	_, err := ParseCNI("10000000000000001")
	require.NoError(t, err)

	_, err = ParseCNI("1000000000001")
	require.Error(t, err)
	assert.Equal(t, "cni must contain exactly 17 digits", err.Error())

	SetCNILength(0)
	assert.Equal(t, DefaultCNILength, CNILength())
}

func TestParsePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantMsg string
	}{
		{"bare mobile", "771234567", "771234567", ""},
		{"plus prefix", "+221771234567", "771234567", ""},
		{"double zero prefix", "00221781234567", "781234567", ""},
		{"internal spaces", "+221 76 123 45 67", "761234567", ""},
		{"tab separated", "70\t123\t4567", "701234567", ""},
		{"fixed line", "338201234", "338201234", ""},
		{"letters", "77123456a", "", "phone number must contain only digits"},
		{"dashes", "77-123-4567", "", "phone number must contain only digits"},
		{"empty", "", "", "phone number must contain only digits"},
		{"prefix only", "+221", "", "phone number must contain only digits"},
		{"leading space hides prefix", " +221771234567", "", "phone number must contain only digits"},
		{"too short", "77123456", "", "phone number must contain exactly 9 digits"},
		{"too long", "7712345678", "", "phone number must contain exactly 9 digits"},
		{"foreign prefix kept", "0033771234567", "", "phone number must contain exactly 9 digits"},
		{"free operator", "761234567", "761234567", ""},
		{"expresso range", "701234567", "701234567", ""},
		{"non orange mobile", "751234567", "", "phone number is not a valid Orange Senegal number"},
		{"non orange fixed", "301234567", "", "phone number is not a valid Orange Senegal number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhoneNumber(tt.input)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.String())
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestPhoneNumber_IsFixedLine(t *testing.T) {
	fixed, err := ParsePhoneNumber("338201234")
	require.NoError(t, err)
	assert.True(t, fixed.IsFixedLine())

	mobile, err := ParsePhoneNumber("771234567")
	require.NoError(t, err)
	assert.False(t, mobile.IsFixedLine())
}
