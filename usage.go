package argot

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// usageText renders the usage summary for a command: purpose, a
// synopsis line built from the declarations, and per-argument rows
// with description, default and required annotations.
func usageText(name, purpose string, def *Definition) string {
	bold := color.New(color.Bold)

	synopsis := fmt.Sprintf("Usage: %s", name)
	for _, pa := range def.Positionals() {
		if pa.Required() {
			synopsis = fmt.Sprintf("%s <%s>", synopsis, pa.Key())
		} else {
			synopsis = fmt.Sprintf("%s [%s]", synopsis, pa.Key())
		}
	}
	if len(def.Keywords()) > 0 || len(def.Flags()) > 0 {
		synopsis += " [OPTIONS]"
	}

	usage := ""
	if purpose != "" {
		usage = purpose + "\n\n"
	}
	usage += synopsis + "\n"

	if rows := positionalRows(def); len(rows) > 0 {
		usage += fmt.Sprintf(
			"\n%s\n%s\n",
			bold.Sprint("Arguments:"),
			strings.Join(fmap(rows, shiftFour), "\n"),
		)
	}
	// options always include the help row, thus never empty
	usage += fmt.Sprintf(
		"\n%s\n%s\n",
		bold.Sprint("Options:"),
		strings.Join(fmap(optionRows(def), shiftFour), "\n"),
	)
	return usage
}

func positionalRows(def *Definition) []string {
	rows := []string{}
	maxLen := 0
	for _, pa := range def.Positionals() {
		maxLen = maxInt(maxLen, 2+len(pa.Key())) // 2 for <> or [] around the key
	}
	for _, pa := range def.Positionals() {
		row := fmt.Sprintf("[%s]", pa.Key())
		if pa.Required() {
			row = fmt.Sprintf("<%s>", pa.Key())
		}
		row = appendSpacesToLength(row, maxLen)
		if pa.Description() != "" {
			row = fmt.Sprintf("%s  %s", row, pa.Description())
		}
		if note, ok := annotate(pa); ok {
			row = fmt.Sprintf("%s  %s", row, note)
		}
		rows = append(rows, row)
	}
	return rows
}

func optionRows(def *Definition) []string {
	const helpRow = "--help, /?"
	const keywordFmt = "%s:<value>"
	const flagFmt = "--%s, /%s"

	labels := []string{helpRow}
	descs := []string{"print this message"}
	for _, kw := range def.Keywords() {
		labels = append(labels, fmt.Sprintf(keywordFmt, kw.Key()))
		desc := kw.Description()
		if note, ok := annotate(kw); ok {
			desc = strings.TrimSpace(desc + "  " + note)
		}
		descs = append(descs, desc)
	}
	for _, f := range def.Flags() {
		labels = append(labels, fmt.Sprintf(flagFmt, f.Key(), f.Key()))
		descs = append(descs, f.Description())
	}

	maxLen := 0
	for _, l := range labels {
		maxLen = maxInt(maxLen, len(l))
	}
	rows := make([]string, len(labels))
	for i, l := range labels {
		if descs[i] == "" {
			rows[i] = l
			continue
		}
		rows[i] = fmt.Sprintf("%s  %s", appendSpacesToLength(l, maxLen), descs[i])
	}
	return rows
}

// annotate builds the trailing default/required note of a value
// argument row. Sensitive defaults are not echoed.
func annotate(va ValueArg) (string, bool) {
	if dv, ok := va.Default(); ok {
		if va.Sensitive() {
			return `[default: ****]`, true
		}
		return fmt.Sprintf(`[default: "%s"]`, dv), true
	}
	if va.Required() {
		return `[required]`, true
	}
	return "", false
}

func shiftFour(s string) string {
	const fourSpace = "    "
	return fourSpace + s
}

func fmap(ss []string, f func(string) string) []string {
	for i, s := range ss {
		ss[i] = f(s)
	}
	return ss
}

func appendSpacesToLength(s string, toLength int) string {
	needSpace := toLength - len(s)
	for i := 0; i < needSpace; i++ {
		s += " "
	}
	return s
}

func maxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}
