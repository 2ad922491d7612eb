package hostfuncs

// DefaultMaxMessageSize limits the size of a string a guest may pass to a host
// function (1MB). This prevents malicious WASM modules from triggering OOM by claiming
// huge lengths.
const DefaultMaxMessageSize = 1 * 1024 * 1024

// DefaultMaxResultSize limits the size of a payload returned by on_load or generate (16MB).
const DefaultMaxResultSize = 16 * 1024 * 1024
