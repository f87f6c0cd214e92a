package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	enabled := true

	tests := []struct {
		name    string
		input   string
		want    Credentials
		wantErr bool
	}{
		{
			name:  "current keys",
			input: `{"id": 12, "username": "alice", "cookie": "sess=1", "x_bc": "abc", "auth_uid": "u1", "active": true}`,
			want:  Credentials{ID: 12, Username: "alice", Cookie: "sess=1", XBC: "abc", AuthUID: "u1", Active: &enabled},
		},
		{
			name:  "legacy keys",
			input: `{"auth_id": "34", "auth_uid_": "u2", "user_agent": "ua"}`,
			want:  Credentials{ID: 34, AuthUID: "u2", UserAgent: "ua"},
		},
		{
			name:  "nested under auth",
			input: `{"auth": {"auth_id": 56, "email": "a@b.c", "password": "pw"}}`,
			want:  Credentials{ID: 56, Email: "a@b.c", Password: "pw"},
		},
		{
			name:  "current key wins over legacy",
			input: `{"id": 1, "auth_id": 2}`,
			want:  Credentials{ID: 1},
		},
		{
			name:  "empty string id",
			input: `{"id": "", "username": "guest"}`,
			want:  Credentials{Username: "guest"},
		},
		{
			name:    "not json",
			input:   `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCredentials([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseCredentialsList(t *testing.T) {
	list, err := ParseCredentialsList([]byte(`[{"id": 1}, {"auth_id": 2}]`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(2), list[1].ID)
	require.True(t, list[1].HasID())

	_, err = ParseCredentialsList([]byte(`[{"id": 1}, 7]`))
	require.Error(t, err)
}

func TestCredentials_Enabled(t *testing.T) {
	disabled := false

	require.True(t, Credentials{}.Enabled())
	require.False(t, Credentials{Active: &disabled}.Enabled())
}
