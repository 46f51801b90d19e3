// Package conf loads remote-account configuration: a TOML file listing
// accounts, plus env vars locating that file and the directory where
// session cookie state is persisted between runs.
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/programme-lv/vjudge/provider"
)

type AccountConfig struct {
	Endpoint string `toml:"endpoint"`
	Handle   string `toml:"handle"`
	Password string `toml:"password"`
	Proxy    string `toml:"proxy"`
}

type accountsFile struct {
	Accounts []AccountConfig `toml:"accounts"`
}

// LoadAccounts reads the accounts TOML and merges in each account's
// previously saved cookie set from stateDir, when one exists.
func LoadAccounts(path string, stateDir string) ([]provider.RemoteAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	var f accountsFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}
	accounts := make([]provider.RemoteAccount, 0, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Handle == "" || a.Password == "" {
			return nil, fmt.Errorf("account entry missing handle or password")
		}
		cookies, err := LoadCookies(stateDir, a.Handle)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, provider.RemoteAccount{
			Endpoint: a.Endpoint,
			Handle:   a.Handle,
			Password: a.Password,
			Proxy:    a.Proxy,
			Cookies:  cookies,
		})
	}
	return accounts, nil
}

type cookieState struct {
	Cookies []string `json:"cookies"`
}

func cookiePath(stateDir, handle string) string {
	return filepath.Join(stateDir, handle+".json")
}

// LoadCookies returns the saved cookie set for handle, or nil when none
// was saved yet.
func LoadCookies(stateDir, handle string) ([]string, error) {
	raw, err := os.ReadFile(cookiePath(stateDir, handle))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie state: %w", err)
	}
	var st cookieState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("parse cookie state: %w", err)
	}
	return st.Cookies, nil
}

// SaveCookies durably persists the cookie set for handle. Written via a
// temp file + rename so a crash can't leave a torn state file.
func SaveCookies(stateDir, handle string, cookies []string) error {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.MarshalIndent(cookieState{Cookies: cookies}, "", "  ")
	if err != nil {
		return err
	}
	tmp := cookiePath(stateDir, handle) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write cookie state: %w", err)
	}
	return os.Rename(tmp, cookiePath(stateDir, handle))
}

func GetAccountsPathFromEnv() string {
	path := os.Getenv("VJUDGE_ACCOUNTS_TOML")
	if path == "" {
		panic("VJUDGE_ACCOUNTS_TOML not set in .env file")
	}
	return path
}

func GetStateDirFromEnv() string {
	dir := os.Getenv("VJUDGE_STATE_DIR")
	if dir == "" {
		panic("VJUDGE_STATE_DIR not set in .env file")
	}
	return dir
}
