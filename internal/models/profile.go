// ABOUTME: UserProfile model for the active user and known accounts.
// ABOUTME: Username is the identity key used by account switching.
package models

// UserProfile describes a person using the app.
type UserProfile struct {
	Name              string `json:"name" yaml:"name"`
	Username          string `json:"username" yaml:"username"`
	Age               *int   `json:"age,omitempty" yaml:"age,omitempty"`
	MedicalConditions string `json:"medical_conditions,omitempty" yaml:"medical_conditions,omitempty"`
	Avatar            string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// NewUserProfile creates a profile with the required fields.
func NewUserProfile(name, username string) UserProfile {
	return UserProfile{Name: name, Username: username}
}

// WithAge sets the optional age.
func (p UserProfile) WithAge(age int) UserProfile {
	p.Age = &age
	return p
}

// WithMedicalConditions sets the free-text conditions field.
func (p UserProfile) WithMedicalConditions(conditions string) UserProfile {
	p.MedicalConditions = conditions
	return p
}

// Clone returns a copy that shares no pointers with p.
func (p UserProfile) Clone() UserProfile {
	if p.Age != nil {
		age := *p.Age
		p.Age = &age
	}
	return p
}

// DisplayName falls back to the username when no name is set.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return "@" + p.Username
	}
	return "friend"
}
