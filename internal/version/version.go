package version

// Version is the released version of git-whisper. Release builds override it
// with -ldflags "-X github.com/gitwhisper/gitwhisper/internal/version.Version=x.y.z".
var Version = "0.3.0"

// Commit is the short hash the binary was built from, empty for local builds.
var Commit = ""

// FullVersion returns the version with the v prefix and, when known, the commit.
func FullVersion() string {
	v := "v" + Version
	if Commit != "" {
		v += " (" + Commit + ")"
	}
	return v
}
