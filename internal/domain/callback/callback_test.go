package callback

import (
	"testing"

	"github.com/cassiomorais/storenotify/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("kLtgPl8HHhfvMuDHPwKfgfsY4Ydm9eIz")

func TestPayload_Authenticate(t *testing.T) {
	data := `{"app_trans_id":"240101_000123","amount":150000}`

	auth, ok := Payload{Data: data, MAC: signature.Sign(data, testKey)}.Authenticate(testKey)
	require.True(t, ok)

	vc, err := auth.Parse()
	require.NoError(t, err)
	assert.Equal(t, "240101_000123", vc.AppTransID)
	assert.Equal(t, int64(150000), vc.Amount)
	assert.Equal(t, data, vc.Raw)
}

func TestPayload_Authenticate_Tampered(t *testing.T) {
	data := `{"app_trans_id":"240101_000123","amount":150000}`
	mac := signature.Sign(data, testKey)

	_, ok := Payload{Data: `{"app_trans_id":"240101_000123","amount":1}`, MAC: mac}.Authenticate(testKey)
	assert.False(t, ok)
}

func TestAuthenticated_ZeroValueDoesNotParse(t *testing.T) {
	_, err := Authenticated{}.Parse()
	assert.Error(t, err)
}

func TestResults(t *testing.T) {
	assert.Equal(t, Result{ReturnCode: -1, ReturnMessage: "mac not equal", State: StateRejected}, Rejected())
	assert.Equal(t, CodeProcessingError, ParseFailed("boom").ReturnCode)
	assert.Equal(t, StateAccepted, Accepted("x").State)
	assert.Equal(t, "x", SettleFailed("x", "db down").AppTransID)
}
