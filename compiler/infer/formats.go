package infer

import (
	"regexp"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	uuidPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	uriPattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://\S+$`)
	integerPattern  = regexp.MustCompile(`^-?\d+$`)
	boolPattern     = regexp.MustCompile(`^(true|false|True|False)$`)
)

// recognizeFormat maps a string value to the transformed-string kind it
// matches, if any.
func recognizeFormat(s string) (typegraph.TypeKind, bool) {
	switch {
	case dateTimePattern.MatchString(s):
		return typegraph.KindDateTime, true
	case datePattern.MatchString(s):
		return typegraph.KindDate, true
	case timePattern.MatchString(s):
		return typegraph.KindTime, true
	case uuidPattern.MatchString(s):
		return typegraph.KindUUID, true
	case uriPattern.MatchString(s):
		return typegraph.KindURI, true
	case integerPattern.MatchString(s):
		return typegraph.KindIntegerString, true
	case boolPattern.MatchString(s):
		return typegraph.KindBoolString, true
	default:
		return typegraph.KindNone, false
	}
}
