package stepform

// Version is the release of the stepform module, overridden at build time with
// -ldflags "-X github.com/aretw0/stepform.Version=...".
var Version = "0.1.0"
