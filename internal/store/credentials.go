package store

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Credentials are the saved login used for auto-login at startup. The
// employee ID is cached after a successful login so offline commands can
// key into local state without talking to the gateway.
type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// CredentialFile stores credentials in the state directory.
type CredentialFile struct {
	path string
}

// NewCredentialFile places session.json under dir.
func NewCredentialFile(dir string) *CredentialFile {
	return &CredentialFile{path: filepath.Join(dir, "session.json")}
}

// Load returns the saved credentials, or found=false when none exist or
// the file is unreadable.
func (c *CredentialFile) Load() (Credentials, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return Credentials{}, false
	}
	var creds Credentials
	if err := sonic.Unmarshal(data, &creds); err != nil {
		return Credentials{}, false
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, false
	}
	return creds, true
}

// Save persists credentials for the next auto-login.
func (c *CredentialFile) Save(creds Credentials) error {
	data, err := sonic.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// Clear removes saved credentials (logout).
func (c *CredentialFile) Clear() {
	os.Remove(c.path)
}
