// Package classify infers a file extension from raw buffer content.
//
// The sniffer is a single-pass heuristic tuned for near-zero false positives
// on short snippets; it is not a general language classifier. Rules are an
// ordered chain of (predicate, extension) pairs and the first match wins.
package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Extension is an inferred file extension, including the leading dot.
type Extension string

// The fixed set of extensions Detect can return.
const (
	ExtText     Extension = ".txt"
	ExtJSON     Extension = ".json"
	ExtXML      Extension = ".xml"
	ExtHTML     Extension = ".html"
	ExtCSV      Extension = ".csv"
	ExtTSV      Extension = ".tsv"
	ExtLog      Extension = ".log"
	ExtSQL      Extension = ".sql"
	ExtYAML     Extension = ".yaml"
	ExtMarkdown Extension = ".md"
	ExtPython   Extension = ".py"
	ExtJS       Extension = ".js"
)

// maxDelimiterLines bounds how many leading lines the CSV/TSV rule inspects.
const maxDelimiterLines = 10

// minLogLines is the number of log-shaped line starts required for .log.
const minLogLines = 3

var (
	htmlRe     = regexp.MustCompile(`(?i)^(?:<!doctype html|<html)`)
	xmlShapeRe = regexp.MustCompile(`(?s)^<[A-Za-z].*>.*</[A-Za-z]`)
	logLineRe  = regexp.MustCompile(`(?m)^(?:\d{4}[-/]\d{2}[-/]\d{2}|\d{2}:\d{2}:\d{2}|(?:DEBUG|INFO|WARN|ERROR|FATAL|TRACE)[\s:|])`)
	sqlRe      = regexp.MustCompile(`(?im)^\s*(?:SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|WITH)\b`)
	yamlDocRe  = regexp.MustCompile(`(?m)^---[ \t]*$`)
	yamlKeyRe  = regexp.MustCompile(`^[A-Za-z_]\w*:\s`)
	mdHeadRe   = regexp.MustCompile(`(?m)^#{1,6}\s`)
	shebangRe  = regexp.MustCompile(`^#!.*python`)
)

// pythonPrefixes and jsPrefixes are matched against the start of the content.
// "import " appears in both lists; the Python rule runs first and claims it.
var (
	pythonPrefixes = []string{"import ", "from ", "def ", "class "}
	jsPrefixes     = []string{"const ", "let ", "var ", "function ", "import ", "export "}
)

// rule pairs a predicate with the extension it yields.
type rule struct {
	match func(string) bool
	ext   Extension
}

// rules is the detection chain, evaluated in order against trimmed content.
// Order is load-bearing: structured data before markup, markup before
// tabular, and HTML before the generic XML shape check.
var rules = []rule{
	{isJSON, ExtJSON},
	{isHTML, ExtHTML},
	{isXML, ExtXML},
	{delimited(","), ExtCSV},
	{delimited("\t"), ExtTSV},
	{isLog, ExtLog},
	{isSQL, ExtSQL},
	{isYAML, ExtYAML},
	{isMarkdown, ExtMarkdown},
	{isPython, ExtPython},
	{isJS, ExtJS},
}

// Detect returns the extension inferred from content. It is deterministic,
// side-effect free, and always returns a member of the extension set;
// content matching no rule (or blank content) yields ExtText.
func Detect(content string) Extension {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ExtText
	}
	for _, r := range rules {
		if r.match(trimmed) {
			return r.ext
		}
	}
	return ExtText
}

// isJSON reports whether s is a complete JSON document wrapped in a matching
// object or array bracket pair. Bracket-wrapped content that fails strict
// parsing is not JSON and falls through to later rules.
func isJSON(s string) bool {
	wrapped := (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
	if !wrapped {
		return false
	}
	return json.Valid([]byte(s))
}

// isHTML matches an HTML doctype or <html prefix, case-insensitively.
// Checked before the generic XML shape since doctype/html is more specific.
func isHTML(s string) bool {
	return htmlRe.MatchString(s)
}

// isXML matches an XML declaration or a generic open-tag...close-tag shape.
func isXML(s string) bool {
	return strings.HasPrefix(s, "<?xml") || xmlShapeRe.MatchString(s)
}

// delimited returns a predicate reporting whether the first lines of the
// content look like delimiter-separated values: at least two leading lines,
// and every non-blank line among them carries the same count (>= 2) of sep.
func delimited(sep string) func(string) bool {
	return func(s string) bool {
		lines := strings.Split(s, "\n")
		if len(lines) > maxDelimiterLines {
			lines = lines[:maxDelimiterLines]
		}
		if len(lines) < 2 {
			return false
		}
		count := -1
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			n := strings.Count(line, sep)
			if n < 2 {
				return false
			}
			if count == -1 {
				count = n
				continue
			}
			if n != count {
				return false
			}
		}
		return count != -1
	}
}

// isLog reports whether at least minLogLines lines start with a date, a
// time, or a log-level keyword followed by whitespace, colon, or pipe.
func isLog(s string) bool {
	return len(logLineRe.FindAllStringIndex(s, minLogLines)) >= minLogLines
}

// isSQL reports whether any line begins with a DML/DDL keyword.
func isSQL(s string) bool {
	return sqlRe.MatchString(s)
}

// isYAML matches a document separator line or a leading "key: value" shape.
func isYAML(s string) bool {
	return yamlDocRe.MatchString(s) || yamlKeyRe.MatchString(s)
}

// isMarkdown matches an ATX heading (1-6 #'s plus whitespace) on any line.
func isMarkdown(s string) bool {
	return mdHeadRe.MatchString(s)
}

// isPython matches Python-shaped first lines: common statement keywords or
// a python shebang.
func isPython(s string) bool {
	for _, p := range pythonPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return shebangRe.MatchString(s)
}

// isJS matches JavaScript/TypeScript-shaped first lines.
func isJS(s string) bool {
	for _, p := range jsPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
