package version

// Current is the released version, overridden at build time with
// -ldflags "-X github.com/David-Botos/contact-cleanse/internal/version.Current=x.y.z"
var Current = "0.3.0"
