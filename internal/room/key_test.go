package room

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeyTrimsAndNFKC(t *testing.T) {
	assert.Equal(t, "abc123", NormalizeKey("  abc123  "))
	// 全角英数の貼り付けも半角に揃う
	assert.Equal(t, "ABC123xyz0", NormalizeKey("ＡＢＣ１２３ｘｙｚ０"))
}

func TestValidateKeyLengthBoundary(t *testing.T) {
	assert.ErrorIs(t, ValidateKey("abc123xyz"), ErrInvalidKey) // 9文字
	assert.NoError(t, ValidateKey("abc123xyz0"))               // 10文字
}

func TestValidateKeyRejectsNonPrintableASCII(t *testing.T) {
	assert.ErrorIs(t, ValidateKey("abcで123456"), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey("abc 123456"), ErrInvalidKey) // スペース込み
}

func TestValidateKeyAcceptsSymbols(t *testing.T) {
	assert.NoError(t, ValidateKey("abc-123_x!z"))
}

func TestDeriveRoomIDIsDeterministic(t *testing.T) {
	id1, err := DeriveRoomID("my-shared-key-01")
	require.NoError(t, err)
	id2, err := DeriveRoomID("  my-shared-key-01  ")
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "whitespace must not change the derived id")

	hash := sha256.Sum256([]byte("my-shared-key-01"))
	assert.Equal(t, hex.EncodeToString(hash[:]), id1)
}

func TestDeriveRoomIDDiffersPerKey(t *testing.T) {
	id1, err := DeriveRoomID("my-shared-key-01")
	require.NoError(t, err)
	id2, err := DeriveRoomID("my-shared-key-02")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestDeriveRoomIDRejectsInvalidKey(t *testing.T) {
	_, err := DeriveRoomID("short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestGenerateKeyShape(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key, keyLength)
	for _, r := range key {
		assert.True(t, strings.ContainsRune(keyChars, r), "unexpected rune %q", r)
	}

	// 生成キーはそのまま参加に使える
	assert.NoError(t, ValidateKey(key))
}

func TestGenerateKeyIsRandom(t *testing.T) {
	key1, err := GenerateKey()
	require.NoError(t, err)
	key2, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}
