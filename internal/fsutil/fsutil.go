// Package fsutil provides small filesystem helpers shared by the config
// loader and the blob persistence layer.
package fsutil

import (
	"os"
	"os/user"
)

// HomeDir returns the home directory of the current user: $HOME if set,
// else the user database entry, else the current working directory when
// that entry has no home directory. An error looking up the current user
// is returned as is.
func HomeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", err
	}
	if u.HomeDir != "" {
		return u.HomeDir, nil
	}

	return os.Getwd()
}

// PathExists reports whether path exists, distinguishing "does not exist"
// from other stat errors.
func PathExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
