package tui

import "errors"

// ErrMissingDataSource is returned when the data source is not provided.
var ErrMissingDataSource = errors.New("tui: data source is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
