// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// APIRequest caps a single call from the web or MCP process to the API.
const APIRequest = 10 * time.Second

// Geocoding caps one upstream Nominatim request.
const Geocoding = 8 * time.Second

// Generation caps one AI generation attempt for a single model.
const Generation = 60 * time.Second

// Upload caps one image upload to the media backend.
const Upload = 30 * time.Second
