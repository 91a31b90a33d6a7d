package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadEnv loads variables from path, overriding the process environment.
// A missing default file is not an error; a missing explicit file is.
func loadEnv(path string) (string, error) {
	requested := strings.TrimSpace(path)
	if requested == "" {
		requested = defaultEnvFile
	}

	if custom := strings.TrimSpace(os.Getenv("GORELAY_ENV_FILE")); custom != "" && requested == defaultEnvFile {
		requested = custom
	}

	if err := godotenv.Overload(requested); err != nil {
		if errors.Is(err, fs.ErrNotExist) && requested == defaultEnvFile {
			return "", nil
		}
		return "", fmt.Errorf("load env file %s: %w", requested, err)
	}
	return requested, nil
}
