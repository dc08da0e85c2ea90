package ints

// Version is the interpreter release string reported by the CLI.
const Version = "0.1.0"
