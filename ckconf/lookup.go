package ckconf

import (
	"os"
	"path/filepath"
)

const (
	dataDirName = ".ck_data"
	binaryName  = "clickhouse"
)

// DefaultDataDir returns "~/.ck_data". Falls back to a relative path when the
// home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// BinaryFile returns the server binary bundled next to the running executable
// if there is one, and otherwise the bare name, to be resolved via PATH.
func BinaryFile() string {
	exe, err := os.Executable()
	if err != nil {
		return binaryName
	}
	return binaryIn(filepath.Dir(exe))
}

func binaryIn(dir string) string {
	path := filepath.Join(dir, binaryName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return binaryName
	}
	return path
}
