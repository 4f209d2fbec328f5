package css

// Some of the code comes from WebComponents.JS
// https://github.com/webcomponents/webcomponentsjs/blob/master/src/HTMLImports/path.js

import (
	"regexp"
)

var urlWithSchemaRegexp = regexp.MustCompile(`^([^:/?#]+):`)

// IsStyleUrlResolvable checks if a style URL found inside a template can be
// resolved relative to the component. Absolute URLs and URLs with a scheme
// other than package/asset are left for the runtime to handle.
func IsStyleUrlResolvable(url string) bool {
	if len(url) == 0 || url[0] == '/' {
		return false
	}
	schemeMatch := urlWithSchemaRegexp.FindStringSubmatch(url)
	return schemeMatch == nil || schemeMatch[1] == "package" || schemeMatch[1] == "asset"
}
