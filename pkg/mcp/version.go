package mcp

// LatestProtocolVersion is the protocol version this peer speaks and
// requires of the other side during Initialize (spec §6).
const LatestProtocolVersion = "2024-11-05"
