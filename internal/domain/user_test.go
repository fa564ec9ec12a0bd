package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

func TestUserResourceDefaults(t *testing.T) {
	t.Run("empty record", func(t *testing.T) {
		user := &domain.UserResource{UserName: "ada@example.com"}

		require.Equal(t, domain.DefaultDisplayName, user.DisplayName())
		require.Equal(t, domain.DefaultRole, user.Role())
		require.Equal(t, domain.MissingFieldPlaceholder, user.PrimaryPhone())
	})

	t.Run("populated record", func(t *testing.T) {
		user := &domain.UserResource{
			UserName:     "ada@example.com",
			Name:         &domain.UserName{Formatted: "Ada Lovelace"},
			PhoneNumbers: []domain.UserPhoneNumber{{Value: "+61400000000", Type: "mobile"}},
			Extension: &domain.UserExtension{
				CustomAttributes: []domain.CustomAttribute{{Name: "role", Values: []string{"admin"}}},
			},
		}

		require.Equal(t, "Ada Lovelace", user.DisplayName())
		require.Equal(t, "admin", user.Role())
		require.Equal(t, "+61400000000", user.PrimaryPhone())
	})

	t.Run("extension present but empty values", func(t *testing.T) {
		user := &domain.UserResource{
			UserName:  "ada@example.com",
			Extension: &domain.UserExtension{CustomAttributes: []domain.CustomAttribute{{Name: "role"}}},
		}
		require.Equal(t, domain.DefaultRole, user.Role())
	})
}

func TestUserResourceUnmarshal(t *testing.T) {
	payload := []byte(`{
		"id": "user-1",
		"userName": "ada@example.com",
		"name": {"formatted": "Ada Lovelace", "givenName": "Ada", "familyName": "Lovelace"},
		"emails": [{"value": "ada@example.com", "type": "work"}],
		"urn:ietf:params:scim:schemas:extension:ibm:2.0:User": {
			"customAttributes": [{"name": "role", "values": ["agent"]}]
		}
	}`)

	var user domain.UserResource
	require.NoError(t, json.Unmarshal(payload, &user))
	require.Equal(t, "user-1", user.ID)
	require.Equal(t, "agent", user.Role())
	require.Equal(t, "Ada Lovelace", user.DisplayName())
}

func TestIdentityDerivation(t *testing.T) {
	user := &domain.UserResource{UserName: "ada@example.com"}
	identity := user.Identity("bearer-token")

	require.Equal(t, domain.Identity{
		Name:        domain.DefaultDisplayName,
		Email:       "ada@example.com",
		Role:        domain.DefaultRole,
		AccessToken: "bearer-token",
	}, identity)
}
