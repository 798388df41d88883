package ai

// Model metadata for the Groq models used in the fallback cascade.
// Context windows matter when deciding how much schema detail fits in
// the system prompt; free-tier daily request limits are informational.

type ModelInfo struct {
	Name           string
	ContextTokens  int // approximate context window
	RequestsPerDay int // free-tier daily request limit, 0 if unknown
}

var models = map[string]ModelInfo{
	"llama-3.3-70b-versatile": {
		Name:           "llama-3.3-70b-versatile",
		ContextTokens:  128000,
		RequestsPerDay: 14400,
	},
	"llama3-70b-8192": {
		Name:           "llama3-70b-8192",
		ContextTokens:  8192,
		RequestsPerDay: 14400,
	},
	"mixtral-8x7b-32768": {
		Name:           "mixtral-8x7b-32768",
		ContextTokens:  32768,
		RequestsPerDay: 14400,
	},
	"llama3-8b-8192": {
		Name:           "llama3-8b-8192",
		ContextTokens:  8192,
		RequestsPerDay: 14400,
	},
}

// LookupModel returns ModelInfo and ok flag.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[name]
	return mi, ok
}

// Catalog returns a shallow copy of the current model catalog.
func Catalog() map[string]ModelInfo {
	out := make(map[string]ModelInfo, len(models))
	for k, v := range models {
		out[k] = v
	}
	return out
}
