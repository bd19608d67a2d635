package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 70)},
		{"empty secret", ""},
		{"unicode password", "密码пароль"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := HashSecret(tt.plaintext, MinCost)
			require.NoError(t, err)
			require.NotEmpty(t, digest)
			require.True(t, strings.HasPrefix(digest, "$2a$"),
				"digest should be a bcrypt hash")
			require.True(t, VerifySecret(digest, tt.plaintext))
		})
	}
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	const secret = "samepassword"

	d1, err := HashSecret(secret, MinCost)
	require.NoError(t, err)
	d2, err := HashSecret(secret, MinCost)
	require.NoError(t, err)

	require.NotEqual(t, d1, d2, "digests should differ due to unique salts")
	require.True(t, VerifySecret(d1, secret))
	require.True(t, VerifySecret(d2, secret))
}

func TestHashSecret_CostFloor(t *testing.T) {
	// A cost below the scheme minimum silently clamps rather than failing.
	digest, err := HashSecret("secret", 0)
	require.NoError(t, err)
	require.True(t, VerifySecret(digest, "secret"))
}

func TestVerifySecret_Mismatch(t *testing.T) {
	digest, err := HashSecret("correct-password", MinCost)
	require.NoError(t, err)

	tests := []struct {
		name  string
		wrong string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty plaintext", ""},
		{"truncated", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, VerifySecret(digest, tt.wrong))
		})
	}
}

func TestVerifySecret_AbsentDigest(t *testing.T) {
	// No credential set yet is a normal state, not an error.
	require.False(t, VerifySecret("", "anything"))
	require.False(t, VerifySecret("", ""))
}

func TestVerifySecret_MalformedDigest(t *testing.T) {
	require.False(t, VerifySecret("not-a-bcrypt-hash", "secret"))
	require.False(t, VerifySecret("$2a$truncated", "secret"))
}

func TestHashSecret_TokensUseSameRoutine(t *testing.T) {
	// One-time tokens go through the exact same digest path as passwords.
	token := MustGenerateToken(TokenSize128)

	digest, err := HashSecret(token, MinCost)
	require.NoError(t, err)
	require.True(t, VerifySecret(digest, token))
	require.False(t, VerifySecret(digest, MustGenerateToken(TokenSize128)))
}
