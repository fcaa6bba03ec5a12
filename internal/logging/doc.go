// Package logging builds slog loggers for the blindtest CLI.
//
// It offers a human-readable console handler and a JSON handler, both
// driven by the [logging] config section, plus attribute helpers and the
// standardized field keys used across the pipeline (component, run_id,
// stage, track_id).
package logging
