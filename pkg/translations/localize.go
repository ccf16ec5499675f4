package translations

import (
	"fmt"
	"strings"

	"github.com/matst80/inventory-card/pkg/types"
)

// Localize resolves a dotted key path against a translation tree. A path
// whose segments cannot all be walked yields the fallback verbatim, or the
// key itself when no fallback is given. When the path resolves, a non-string
// leaf yields the fallback too, and parameter placeholders of the form
// {name} are replaced literally; unmatched placeholders stay as-is.
func Localize(tree types.TranslationData, key string, params map[string]any, fallback string) string {
	if fallback == "" {
		fallback = key
	}

	leaf, ok := resolve(tree, key)
	if !ok {
		return fallback
	}

	result, isString := leaf.(string)
	if !isString {
		result = fallback
	}
	for name, param := range params {
		result = strings.ReplaceAll(result, "{"+name+"}", fmt.Sprint(param))
	}
	return result
}

func resolve(tree types.TranslationData, key string) (any, bool) {
	var value any = map[string]any(tree)
	for _, segment := range strings.Split(key, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		if value, ok = node[segment]; !ok {
			return nil, false
		}
	}
	return value, true
}
