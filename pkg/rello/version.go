// Package rello holds build metadata for the rello module.
package rello

// Version is the rello release version.
const Version = "0.1.0"
