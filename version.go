package bilingo

// Version information for bilingo.
const (
	// Name is the application name.
	Name = "bilingo"

	// Description is a short description of the application.
	Description = "Bilingual post translation for static sites"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/bilingo"
)

// Build information, set via ldflags during release builds:
//
//	go build -ldflags "-X github.com/ZaguanLabs/bilingo.Version=1.2.0"
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
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

// UserAgent returns the User-Agent header sent to translation backends.
func UserAgent() string {
	return Name + "/" + FullVersion() + " (+" + Repository + ")"
}
