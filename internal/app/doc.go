// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle — load settings and
// pipeline, build jobs in dependency order, render the script and manifest —
// decoupled from any specific entrypoint like a CLI.
package app
