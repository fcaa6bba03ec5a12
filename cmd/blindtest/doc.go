// Package main hosts the blindtest CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full workflow: generating a video
// from random iTunes previews, previewing track selections, uploading
// finished videos, authorizing the YouTube account, inspecting run history,
// checking external tool availability, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
