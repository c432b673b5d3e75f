package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Security limits for descriptor files
	maxDescriptorSize = 1 << 20 // 1MB max descriptor file size
	maxJSONDepth      = 100     // Maximum JSON nesting depth
	maxEnvVarLen      = 10000   // Maximum environment variable value length
	maxPathLen        = 4096    // Maximum file path length
)

// validateDescriptorPath does basic path validation
func validateDescriptorPath(path string) error {
	if path == "" {
		return errors.New("empty descriptor path")
	}

	if len(path) > maxPathLen {
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	}

	// Path traversal check - use filepath.Clean to normalize and check for parent references
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot get working directory: %w", err)
	}

	// Prevent "/absolute/path/../../../etc/passwd" style escapes
	if filepath.IsAbs(path) {
		if strings.Contains(filepath.ToSlash(absPath), "..") {
			return fmt.Errorf("path traversal not allowed: %s", path)
		}
	} else {
		// Relative paths must stay within CWD after resolution
		relPath, err := filepath.Rel(cwd, absPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return fmt.Errorf("path traversal not allowed: %s resolves outside working directory", path)
		}
	}

	// Only allow the descriptor encodings this package decodes
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("only JSON and YAML descriptor files allowed: %s", path)
	}

	return nil
}

// safeReadFile reads a descriptor file with security validation
func safeReadFile(path string) ([]byte, error) {
	if err := validateDescriptorPath(path); err != nil {
		return nil, fmt.Errorf("invalid descriptor path: %w", err)
	}

	// Check file size before reading
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat descriptor file: %w", err)
	}

	if info.Size() > maxDescriptorSize {
		return nil, fmt.Errorf("descriptor file too large: %d bytes > %d", info.Size(), maxDescriptorSize)
	}

	// Check if it's a regular file (not symlink, directory, etc.)
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read descriptor file: %w", err)
	}

	return data, nil
}

// safeWriteFile writes a descriptor file with security validation
func safeWriteFile(path string, data []byte) error {
	if err := validateDescriptorPath(path); err != nil {
		return fmt.Errorf("invalid descriptor path: %w", err)
	}

	if len(data) > maxDescriptorSize {
		return fmt.Errorf("descriptor data too large: %d bytes > %d", len(data), maxDescriptorSize)
	}

	// Write with secure permissions (owner read/write only)
	return os.WriteFile(path, data, 0600)
}

// validateEnvVar does basic environment variable validation
func validateEnvVar(key, value string) error {
	if value == "" {
		return nil // Empty is OK
	}

	if len(value) > maxEnvVarLen {
		return fmt.Errorf("environment variable %s too long: %d > %d", key, len(value), maxEnvVarLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("null byte in environment variable %s", key)
	}

	return nil
}

// validateJSONDepth checks JSON depth to prevent DoS attacks
func validateJSONDepth(data []byte) error {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		b := data[i]

		// Handle string state
		if escaped {
			escaped = false
			continue
		}

		if b == '\\' && inString {
			escaped = true
			continue
		}

		if b == '"' && !escaped {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		// Track depth
		switch b {
		case '{', '[':
			depth++
			if depth > maxJSONDepth {
				return fmt.Errorf("JSON nesting too deep: %d > %d", depth, maxJSONDepth)
			}
		case '}', ']':
			depth--
			if depth < 0 {
				return errors.New("malformed JSON: unbalanced brackets")
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("malformed JSON: unclosed brackets (depth=%d)", depth)
	}

	return nil
}
