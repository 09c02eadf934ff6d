package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environ returns the process environment, overlaid with the variables of
// envFile when it is not empty.
func Environ(envFile string) (map[string]string, error) {
	env := make(map[string]string)
	for _, e := range os.Environ() {
		k, v, ok := strings.Cut(e, "=")
		if ok && k != "" {
			env[k] = v
		}
	}

	if envFile == "" {
		return env, nil
	}

	overlay, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed reading env file %s: %w", envFile, err)
	}
	for k, v := range overlay {
		env[k] = v
	}
	return env, nil
}
