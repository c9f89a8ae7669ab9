package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	severityColors = map[Severity]*color.Color{
		Info:    color.New(color.FgBlue),
		Warning: color.New(color.FgYellow),
		Error:   color.New(color.FgRed),
		Fatal:   color.New(color.FgRed, color.Bold),
	}
	codeColor = color.New(color.FgCyan)
	dimColor  = color.New(color.Faint)
)

// FormatForTerminal formats an IRError for terminal output with colors
func (e *IRError) FormatForTerminal() string {
	var sb strings.Builder

	sev := severityColors[e.Severity]
	if sev == nil {
		sev = severityColors[Error]
	}

	sb.WriteString(fmt.Sprintf("%s %s: %s\n",
		sev.Sprint(capitalizeSeverity(e.Severity)),
		codeColor.Sprintf("[%s]", e.Code),
		e.Message()))

	if len(e.Properties) > 0 {
		for _, key := range e.sortedPropertyKeys() {
			sb.WriteString(dimColor.Sprintf("    %s = %v\n", key, e.Properties[key]))
		}
	}

	return sb.String()
}

func capitalizeSeverity(s Severity) string {
	str := s.String()
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
