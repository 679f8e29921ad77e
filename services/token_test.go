package services

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
)

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	encode := base64.RawURLEncoding.EncodeToString
	return encode([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		encode(payload) + "." + encode([]byte("sig"))
}

func TestGetStaffFromToken(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"staffinfo": map[string]interface{}{
			"staffid": 12,
			"role":    constants.RoleDoctor,
		},
	})

	id, role, err := GetStaffFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
	assert.Equal(t, constants.RoleDoctor, role)

	id, err = GetStaffIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}

func TestGetStaffFromTokenRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"thiếu phần":      "chỉ-một-phần",
		"payload hỏng":    "a.!!!!.c",
		"không phải json": "a." + base64.RawURLEncoding.EncodeToString([]byte("xyz")) + ".c",
		"thiếu staffinfo": makeToken(t, map[string]interface{}{"sub": "x"}),
		"thiếu staffid": makeToken(t, map[string]interface{}{
			"staffinfo": map[string]interface{}{"role": 1},
		}),
		"thiếu role": makeToken(t, map[string]interface{}{
			"staffinfo": map[string]interface{}{"staffid": 12},
		}),
	}
	for name, token := range cases {
		_, _, err := GetStaffFromToken(token)
		require.Error(t, err, name)
		app := errors.GetAppError(err)
		require.NotNil(t, app, name)
		assert.Equal(t, errors.ErrCodeInvalidToken, app.Code, name)
	}
}
