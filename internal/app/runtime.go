package app

import (
	"os"
	"strings"
	"sync"
)

// TestModeEnv marks a process started by a test binary. The binaries check it
// before opening listeners or Redis connections.
const TestModeEnv = "ENERGYDASH_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return envTruthy(os.Getenv(TestModeEnv))
})

// InTestMode reports whether startup side effects should be skipped.
func InTestMode() bool {
	return testMode()
}

func envTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
