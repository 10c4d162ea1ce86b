package version

// These values are injected at build time using
// -ldflags "-X github.com/TeamNorCal/pilight/version.GitHash=... -X github.com/TeamNorCal/pilight/version.BuildTime=..."
var (
	GitHash   = "unknown"
	BuildTime = "unknown"
)
