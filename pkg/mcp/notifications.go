package mcp

// Notification method names, gathered here for callers that want to
// inspect a raw frame's method string before decoding it (e.g. logging,
// metrics labels) without reaching into each schema file.
const (
	NameInitialized             = "notifications/initialized"
	NameToolsListChanged        = "notifications/tools/list_changed"
	NamePromptsListChanged      = "notifications/prompts/list_changed"
	NameResourcesListChanged    = "notifications/resources/list_changed"
	NameResourceUpdated         = "notifications/resource/updated"
)
