package gorelay

// Version information for gorelay.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gorelay.Version=1.0.0"
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

const (
	// Name is the application name.
	Name = "gorelay"

	// Description is a short description of the application.
	Description = "Indonesian text translation relay over OpenAI and Gemini"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/gorelay"
)

// FullVersion returns the version string with the short commit hash when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}
