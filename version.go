// version.go
package pylang

// Version is the interpreter release, surfaced by the CLI and web shell.
const Version = "0.3.0"

// BuildDate is stamped by the release build via -ldflags; the default
// marks a development build.
var BuildDate = "dev"
