package classify

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Extension
	}{
		// Blank content
		{"empty", "", ExtText},
		{"whitespace only", "   \n\t  \n", ExtText},

		// Structured data
		{"json object", `{"a":1}`, ExtJSON},
		{"json array", `[1, 2, 3]`, ExtJSON},
		{"json nested", `{"a": {"b": [1, null, "x"]}}`, ExtJSON},
		{"json with surrounding whitespace", "  {\"a\": 1}\n", ExtJSON},
		{"malformed json falls through", `{"a": 1,,,}`, ExtText},
		{"braces but sql inside falls to sql", "{\nSELECT * FROM t\n}", ExtSQL},

		// Markup
		{"xml declaration", `<?xml version="1.0"?><root/>`, ExtXML},
		{"xml tag shape", "<note><to>you</to></note>", ExtXML},
		{"html doctype", "<!DOCTYPE html>\n<html><body></body></html>", ExtHTML},
		{"html doctype lowercase", "<!doctype html><html></html>", ExtHTML},
		{"html prefix beats xml shape", "<html><body>hi</body></html>", ExtHTML},

		// Tabular
		{"csv three lines", "a,b,c\nd,e,f\ng,h,i", ExtCSV},
		{"csv two commas per line", "1,2,3\n4,5,6", ExtCSV},
		{"csv inconsistent counts", "a,b,c\nd,e", ExtText},
		{"csv single line", "a,b,c", ExtText},
		{"csv one comma not enough", "a,b\nc,d\ne,f", ExtText},
		{"tsv", "a\tb\tc\nd\te\tf", ExtTSV},
		{"comma check precedes tab", "1,2\t3,4\t5\n6,7\t8,9\t0", ExtCSV},
		{"csv with blank interior line", "a,b,c\n\nd,e,f", ExtCSV},

		// Log
		{"log dated lines", "2024-01-02 boot\n2024-01-03 run\n2024-01-04 stop", ExtLog},
		{"log slash dates", "2024/01/02 a\n2024/01/03 b\n2024/01/04 c", ExtLog},
		{"log times", "12:00:01 a\n12:00:02 b\n12:00:03 c", ExtLog},
		{"log levels", "INFO: starting\nWARN: odd\nERROR: broken", ExtLog},
		{"log level pipe", "DEBUG|x\nTRACE|y\nFATAL|z", ExtLog},
		{"two log lines not enough", "INFO: a\nERROR: b", ExtText},

		// SQL
		{"sql select", "SELECT * FROM t", ExtSQL},
		{"sql lowercase", "select id from users where id = 1", ExtSQL},
		{"sql indented on later line", "-- comment\n  INSERT INTO t VALUES (1)", ExtSQL},
		{"sql with cte", "WITH x AS (SELECT 1) SELECT * FROM x", ExtSQL},
		{"selecting is not sql", "selection of poems", ExtText},

		// YAML
		{"yaml document separator", "---\nkey: value", ExtYAML},
		{"yaml leading key", "name: scratchbook\nversion: 1", ExtYAML},
		{"yaml separator mid-content", "prose first\n---\nmore", ExtYAML},

		// Markdown
		{"markdown h1", "# Title\nbody", ExtMarkdown},
		{"markdown deep heading", "intro\n###### notes", ExtMarkdown},
		{"seven hashes is not a heading", "####### nope", ExtText},

		// Python
		{"python import", "import os\nprint(os.getcwd())", ExtPython},
		{"python from import", "from collections import deque", ExtPython},
		{"python def", "def f(x):\n    return x", ExtPython},
		{"python class", "class Foo:\n    pass", ExtPython},
		{"python shebang", "#!/usr/bin/env python3\nprint('hi')", ExtPython},

		// JavaScript
		{"js const", "const x = 1;", ExtJS},
		{"js function", "function add(a, b) { return a + b }", ExtJS},
		{"js export", "export default thing", ExtJS},

		// Fallback
		{"plain prose", "just some thoughts about the day", ExtText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.content); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

// Priority order is part of the contract: the first matching rule wins.
func TestDetect_Priority(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Extension
	}{
		// Valid JSON containing a SQL-looking string stays JSON.
		{"json beats sql", `{"q": "SELECT * FROM t"}`, ExtJSON},
		// Markdown heading inside a log-shaped file: log wins, it runs first.
		{"log beats markdown", "INFO: a\nINFO: b\nINFO: c\n# heading", ExtLog},
		// A YAML-keyed first line with a heading later: yaml runs first.
		{"yaml beats markdown", "title: notes\n# heading", ExtYAML},
		// "import " is shared between the python and js prefix sets.
		{"python claims import", "import thing from 'mod'", ExtPython},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.content); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	content := "2024-01-02 a\n12:00:00 b\nERROR: c"
	first := Detect(content)
	for i := 0; i < 5; i++ {
		if got := Detect(content); got != first {
			t.Fatalf("Detect not deterministic: %q then %q", first, got)
		}
	}
}
