package room

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidKey - 短すぎるか形式が違うキー
var ErrInvalidKey = errors.New("room key is too short or malformed")

// NormalizeKey - trim + NFKC正規化（全角英数の貼り付け対策）
func NormalizeKey(key string) string {
	return norm.NFKC.String(strings.TrimSpace(key))
}

// ValidateKey - ASCII printable (0x21-0x7E) のみ、10文字以上
func ValidateKey(key string) error {
	normalized := NormalizeKey(key)
	if len(normalized) < 10 {
		return ErrInvalidKey
	}
	// govalidator は 0x20 (スペース) も printable 扱いなので別途はじく
	if !govalidator.IsPrintableASCII(normalized) || strings.ContainsRune(normalized, ' ') {
		return ErrInvalidKey
	}
	return nil
}

// DeriveRoomID - SHA-256ハッシュの16進表現をルームIDにする
func DeriveRoomID(roomKey string) (string, error) {
	normalized := NormalizeKey(roomKey)
	if err := ValidateKey(normalized); err != nil {
		return "", err
	}

	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:]), nil
}

const keyChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const keyLength = 16

// GenerateKey - 16文字の英数字ルームキーを生成する
func GenerateKey() (string, error) {
	buf := make([]byte, keyLength*4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate room key: %w", err)
	}

	var b strings.Builder
	for i := 0; i < keyLength; i++ {
		n := binary.BigEndian.Uint32(buf[i*4 : i*4+4])
		b.WriteByte(keyChars[n%uint32(len(keyChars))])
	}
	return b.String(), nil
}
