package auth

import (
	"os"
	"time"
)

// APIKeyEnv is the environment variable read by EnvironmentStore
const APIKeyEnv = "PIXABAY_API_KEY"

// EnvironmentStore implements CredentialStore on top of PIXABAY_API_KEY.
// It is read-only and answers for every profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string { return "environment" }

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve returns the key from the environment
func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return nil, ErrCredentialsNotFound
	}
	if profile == "" {
		profile = DefaultProfile
	}
	return &Credential{
		Profile:      profile,
		APIKey:       key,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment holds a key
func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv(APIKeyEnv) != ""
}
