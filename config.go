package fabricate

import (
	"os"
	"strings"
)

// EnvDir names the environment variable consulted for the output directory
// when neither the file nor its fabricator sets one.
const EnvDir = "FABRICATE_DIR"

// envDir returns the trimmed value of [EnvDir].
func envDir() string {
	return strings.TrimSpace(os.Getenv(EnvDir))
}

// resolveDir picks the first non-empty directory of the file override, the
// fabricator default and [EnvDir], falling back to [os.TempDir].
func resolveDir(candidates ...string) string {
	for _, dir := range append(candidates, envDir()) {
		if dir != "" {
			return dir
		}
	}
	return os.TempDir()
}
