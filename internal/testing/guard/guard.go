// Package guard is imported by tests that build the application wiring.
// Importing it marks the process so the binaries skip their startup.
package guard

import "os"

// EnvTestMode matches app.TestModeEnv.
const EnvTestMode = "ENERGYDASH_TEST_MODE"

func init() {
	if _, set := os.LookupEnv(EnvTestMode); !set {
		_ = os.Setenv(EnvTestMode, "1")
	}
}
