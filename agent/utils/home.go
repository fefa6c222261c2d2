package utils

import (
	"os"
	"os/user"
	"path/filepath"
)

// HomeDir returns the user's home directory. HOME env overrides the OS user
// information which makes testing easier.
func HomeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}
	return currentUser.HomeDir
}

// DefaultWalletDir is the place for local wallet files if nothing else is
// configured.
func DefaultWalletDir() string {
	return filepath.Join(HomeDir(), ".findy", "wallets")
}
