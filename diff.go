package main

import (
	"html"
	"path"
	"strings"
)

// languageFor maps a filename extension to a highlight language. Anything
// unlisted renders as plain escaped text.
func languageFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".py":
		return "python"
	case ".js":
		return "javascript"
	case ".cpp", ".cc", ".h":
		return "cpp"
	default:
		return ""
	}
}

// classifyDiff splits raw unified-diff text into classified display lines.
// Every line is HTML-escaped before anything else looks at it, so diff
// content can never land in the page as live markup. Prefix characters are
// untouched by escaping, so classification runs on the escaped line.
func classifyDiff(raw string) []diffLine {
	if raw == "" {
		return nil
	}
	rawLines := strings.Split(raw, "\n")
	lines := make([]diffLine, 0, len(rawLines))
	for _, rawLine := range rawLines {
		escaped := html.EscapeString(rawLine)

		var line diffLine
		switch {
		case strings.HasPrefix(escaped, "@@"),
			strings.HasPrefix(escaped, "---"),
			strings.HasPrefix(escaped, "+++"):
			line = diffLine{Kind: "meta", Text: escaped}
		case strings.HasPrefix(escaped, "+"):
			line = diffLine{Kind: "addition", Text: escaped[1:]}
		case strings.HasPrefix(escaped, "-"):
			line = diffLine{Kind: "removal", Text: escaped[1:]}
		default:
			text := escaped
			if strings.HasPrefix(text, " ") {
				text = text[1:]
			}
			line = diffLine{Kind: "context", Text: text}
		}
		if line.Text == "" {
			// keeps vertical layout for blank lines
			line.Text = "&nbsp;"
		}
		lines = append(lines, line)
	}
	return lines
}

// buildFileDiff assembles the display view of one changed file.
func buildFileDiff(fc FileChange) fileDiff {
	return fileDiff{
		Filename:  fc.Filename,
		Status:    fc.Status,
		Additions: fc.Additions,
		Deletions: fc.Deletions,
		Changes:   fc.Changes,
		Lang:      languageFor(fc.Filename),
		Lines:     classifyDiff(fc.Patch),
	}
}

func buildFileDiffs(changes []FileChange) []fileDiff {
	if len(changes) == 0 {
		return nil
	}
	diffs := make([]fileDiff, len(changes))
	for i, fc := range changes {
		diffs[i] = buildFileDiff(fc)
	}
	return diffs
}
