package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Standard default permissions
// File: u=rw, g=rw, o=r
const PermFile os.FileMode = 0664

// Dir:  u=rwx, g=rwx, o=rx (Requires +x to traverse)
const PermDir os.FileMode = 0775

// Exec: u=rwx, g=rwx, o=rx for generated job scripts
const PermExec os.FileMode = 0775

// --- Extension Checks (String-based) ---

// IsLog checks if the path has a Gaussian output extension (.log, .out).
func IsLog(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".log" || ext == ".out"
}

// IsCom checks if the path has a Gaussian input extension (.com, .gjf).
func IsCom(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".com" || ext == ".gjf"
}

// IsPdb checks if the path has a PDB extension (.pdb).
func IsPdb(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdb"
}

// BaseNameNoExt returns the file name without directory or extension.
func BaseNameNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// --- Filesystem Checks (OS-based) ---

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir checks if a directory exists, and creates it if it doesn't.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	return os.MkdirAll(path, PermDir)
}

// ReadLastLine returns the last non-empty trailing line of a file.
// Reading the whole file is fine here; Gaussian logs end with short
// termination banners and the call sites only care about that line.
func ReadLastLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(data), "\n\r")
	if s == "" {
		return "", nil
	}
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s), nil
}

// ReadLines reads a file and returns its lines without trailing newlines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	// drop a single trailing empty element from the final newline
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

// ReadListFile reads a file containing one path per line, skipping blanks
// and "#" comments.
func ReadListFile(path string) ([]string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range lines {
		line = StripInlineComment(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, nil
}
