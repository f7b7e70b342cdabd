package openrouter

// ResultKind tags what a gateway call actually produced. Downstream consumers
// switch on the tag instead of probing field presence.
type ResultKind int

const (
	// KindText is a plain-text completion.
	KindText ResultKind = iota
	// KindJSON is a completion that parsed as a JSON object.
	KindJSON
)

// Result is the tagged outcome of a successful gateway call.
type Result struct {
	Kind ResultKind
	// Text holds the raw (fence-stripped) content. Always populated.
	Text string
	// Object holds the parsed, envelope-unwrapped object when Kind is KindJSON.
	Object map[string]any
}
