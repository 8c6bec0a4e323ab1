package types

// Version is the build version of spack-updater. Overwritten by ldflags at release time.
var Version = "dev"
