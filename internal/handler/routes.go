package handler

// APIPrefix is the canonical base path for the public HTTP API.
// The frontend calls these paths without a version segment.
const APIPrefix = "/api"
