package sppack

// Version exposes the version of the library.
const Version = "0.2.0"
