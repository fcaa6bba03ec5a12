// Package pipeline orchestrates a full blind-test run: random track
// selection, audio assembly, video rendering, artifact publication, history
// recording, and the optional YouTube upload. Collaborators are injected as
// small interfaces so each stage can be exercised in isolation.
package pipeline
