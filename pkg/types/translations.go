package types

// TranslationData is the nested key/value tree of localized strings for one
// language. Leaves are strings, inner nodes are nested maps.
type TranslationData map[string]any
