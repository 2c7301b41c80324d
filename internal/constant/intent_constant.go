package constant

const (
	// NATS stream for intent events.
	IntentStreamName  = "INTENTS"
	IntentSubjectRoot = "intents"

	// Intent cache.
	IntentCacheKeyPrefix = "intent:"

	// Parse-log sources.
	ParseSourceOracle   = "oracle"
	ParseSourceFallback = "fallback"
	ParseSourceCache    = "cache"

	ParseLogDefaultLimit = 20
	ParseLogMaxLimit     = 100

	ModuleIntent   = "intent"
	ModuleParseLog = "parse_log"
	ModuleServer   = "server"
)
