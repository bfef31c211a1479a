package version

// Version is the current version of datanorm.
// Can be overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "1.2.0"

// Name is the application name.
const Name = "datanorm"

// Description is a short description of the application.
const Description = "CSV schema normalization to 3NF"
