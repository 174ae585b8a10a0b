package signature

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var key2 = []byte("kLtgPl8HHhfvMuDHPwKfgfsY4Ydm9eIz")

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := Sign("what do ya want for nothing?", []byte("Jefe"))
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestVerify_RoundTrip(t *testing.T) {
	payloads := []string{
		"",
		"{}",
		`{"app_id":2553,"app_trans_id":"240101_000123","amount":150000}`,
		strings.Repeat("x", 4096),
		"đơn hàng",
	}
	for i, data := range payloads {
		t.Run(fmt.Sprintf("payload_%d", i), func(t *testing.T) {
			assert.True(t, Verify(data, Sign(data, key2), key2))
		})
	}
}

func TestVerify_Tampered(t *testing.T) {
	data := `{"app_trans_id":"240101_000123","amount":150000}`
	mac := Sign(data, key2)

	tests := []struct {
		name string
		data string
		mac  string
		key  []byte
	}{
		{"tampered data", `{"app_trans_id":"240101_000123","amount":1}`, mac, key2},
		{"flipped mac char", data, flipFirst(mac), key2},
		{"truncated mac", data, mac[:len(mac)-2], key2},
		{"wrong key", data, mac, []byte("PcY4iZIKFCIdgZvA6ueMcMHHUbRLYjPL")},
		{"empty mac", data, "", key2},
		{"empty key", data, Sign(data, nil), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(tt.data, tt.mac, tt.key))
		})
	}
}

func TestVerify_UppercaseHex(t *testing.T) {
	data := "abc"
	assert.True(t, Verify(data, strings.ToUpper(Sign(data, key2)), key2))
}

func flipFirst(s string) string {
	if s[0] == 'a' {
		return "b" + s[1:]
	}
	return "a" + s[1:]
}
