package testutil

import (
	"testing"
)

// SetupTestEnv sets environment variables for the duration of a test.
//
// The original environment is restored automatically when the test completes.
// Tests using it must not call t.Parallel.
//
// Example usage:
//
//	SetupTestEnv(t, map[string]string{
//	    "AWS_REGION": "us-east-1",
//	    "DB_PASS":    "from-env",
//	})
func SetupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for key, value := range vars {
		t.Setenv(key, value)
	}
}

// MapEnv returns a lookup function over a fixed map, for code that accepts an
// injectable environment.
func MapEnv(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}
