package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"tessera/internal/aggregation"
	"tessera/internal/language"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var confidenceColors = map[aggregation.Confidence]text.Colors{
	aggregation.ConfidenceDefault:         {text.FgHiBlack},
	aggregation.ConfidenceFilename:        {text.FgYellow},
	aggregation.ConfidenceFoldername:      {text.FgYellow},
	aggregation.ConfidenceMediaInfo:       {text.FgCyan},
	aggregation.ConfidenceExternalRelease: {text.FgGreen},
}

func confidenceLabel(c aggregation.Confidence, colorize bool) string {
	label := c.String()
	if !colorize {
		return label
	}
	if colors, ok := confidenceColors[c]; ok {
		return colors.Sprint(label)
	}
	return label
}

// displayValue renders an attribute value for tables. Empty values show as a
// dash so defaulted rows are visibly blank. Languages show their name and
// ISO 639-2 code.
func displayValue(v any) string {
	var s string
	switch value := v.(type) {
	case nil:
		s = ""
	case []language.Code:
		parts := make([]string, len(value))
		for i, code := range value {
			parts[i] = fmt.Sprintf("%s (%s)", code.DisplayName(), code.ISO3())
		}
		s = strings.Join(parts, ", ")
	case fmt.Stringer:
		s = value.String()
	default:
		s = fmt.Sprint(value)
	}
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
