package domain

const (
	// DefaultDisplayName is used when the provider omits a formatted name.
	DefaultDisplayName = "User"
	// DefaultRole is assigned when no role attribute is present.
	DefaultRole = "user"
	// MissingFieldPlaceholder stands in for absent optional profile fields.
	MissingFieldPlaceholder = "N/A"
)

// UserResource models the provider's SCIM user record. Every nested field
// is optional; accessors apply defaults so callers never chase nils.
type UserResource struct {
	ID           string            `json:"id,omitempty"`
	UserName     string            `json:"userName"`
	Name         *UserName         `json:"name,omitempty"`
	Emails       []UserEmail       `json:"emails,omitempty"`
	PhoneNumbers []UserPhoneNumber `json:"phoneNumbers,omitempty"`
	Extension    *UserExtension    `json:"urn:ietf:params:scim:schemas:extension:ibm:2.0:User,omitempty"`
}

// UserName carries the SCIM name component.
type UserName struct {
	Formatted  string `json:"formatted,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// UserEmail is a single SCIM email entry.
type UserEmail struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// UserPhoneNumber is a single SCIM phone entry.
type UserPhoneNumber struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// UserExtension holds tenant-specific custom attributes.
type UserExtension struct {
	CustomAttributes []CustomAttribute `json:"customAttributes,omitempty"`
}

// CustomAttribute is a named multi-valued attribute.
type CustomAttribute struct {
	Name   string   `json:"name,omitempty"`
	Values []string `json:"values,omitempty"`
}

// DisplayName returns the formatted name or a default.
func (u *UserResource) DisplayName() string {
	if u.Name != nil && u.Name.Formatted != "" {
		return u.Name.Formatted
	}
	return DefaultDisplayName
}

// Role returns the first custom-attribute value or the default role.
func (u *UserResource) Role() string {
	if u.Extension != nil && len(u.Extension.CustomAttributes) > 0 {
		attr := u.Extension.CustomAttributes[0]
		if len(attr.Values) > 0 && attr.Values[0] != "" {
			return attr.Values[0]
		}
	}
	return DefaultRole
}

// PrimaryPhone returns the first phone number or a placeholder.
func (u *UserResource) PrimaryPhone() string {
	if len(u.PhoneNumbers) > 0 && u.PhoneNumbers[0].Value != "" {
		return u.PhoneNumbers[0].Value
	}
	return MissingFieldPlaceholder
}

// Identity derives session claims from the user record using the given
// provider access token.
func (u *UserResource) Identity(accessToken string) Identity {
	return Identity{
		Name:        u.DisplayName(),
		Email:       u.UserName,
		Role:        u.Role(),
		AccessToken: accessToken,
	}
}
