package scraper

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// The listing conflates the case number and the case title in a single
// cell, separated only by an inconsistent line break, and sometimes one
// side is missing entirely. SplitCaseField untangles that cell with an
// ordered rule chain; the first rule that claims the input wins.

const maxCaseNoLen = 30

var (
	caseNoPattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)
	// Inline amendment tags like (更正公告) or (取消公告) appended to the
	// case number line.
	markerPattern = regexp.MustCompile(`[(（][^()（）]*公告[)）]`)
	// Any trailing parenthetical annotation on a candidate line.
	annotationPattern = regexp.MustCompile(`[(（][^()（）]*[)）]`)
)

type splitRule struct {
	name  string
	apply func(lines []string) (id string, title string, ok bool)
}

var splitRules = []splitRule{
	{"empty", splitEmpty},
	{"marker-first-line", splitMarkerFirstLine},
	{"single-line", splitSingleLine},
	{"leading-case-no", splitLeadingCaseNo},
	{"scan", splitScan},
}

// SplitCaseField splits the raw text of a combined case-number+title
// cell into (caseNo, title). Either side may come back empty.
func SplitCaseField(raw string) (string, string) {
	lines := cellLines(raw)
	for _, rule := range splitRules {
		if id, title, ok := rule.apply(lines); ok {
			return id, title
		}
	}
	return "", strings.Join(lines, " ")
}

func cellLines(raw string) []string {
	raw = html.UnescapeString(raw)
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitEmpty(lines []string) (string, string, bool) {
	if len(lines) > 0 {
		return "", "", false
	}
	return "", "", true
}

func splitSingleLine(lines []string) (string, string, bool) {
	if len(lines) != 1 {
		return "", "", false
	}
	if looksLikeCaseNo(lines[0]) {
		return lines[0], "", true
	}
	return "", lines[0], true
}

// splitMarkerFirstLine handles a first line carrying an amendment tag,
// e.g. "114BB0013 (更正公告)". A cell that is only such a line keeps the
// marker text as its title.
func splitMarkerFirstLine(lines []string) (string, string, bool) {
	if len(lines) == 0 || !markerPattern.MatchString(lines[0]) {
		return "", "", false
	}

	marker := markerPattern.FindString(lines[0])
	remainder := strings.TrimSpace(markerPattern.ReplaceAllString(lines[0], ""))
	rest := lines[1:]

	if looksLikeCaseNo(remainder) {
		if len(rest) == 0 {
			return remainder, marker, true
		}
		return remainder, strings.Join(rest, " "), true
	}
	return "", strings.Join(lines, " "), true
}

func splitLeadingCaseNo(lines []string) (string, string, bool) {
	if len(lines) < 2 || !looksLikeCaseNo(lines[0]) {
		return "", "", false
	}
	return lines[0], strings.Join(lines[1:], " "), true
}

// splitScan is the fallback for cells where the title precedes the case
// number, or where the number is buried behind an annotation. The first
// line that looks like a case number once annotations are stripped is
// taken as the number; everything else, in original order, is the title.
func splitScan(lines []string) (string, string, bool) {
	if len(lines) < 2 {
		return "", "", false
	}

	caseNo := ""
	var titleParts []string
	for _, line := range lines {
		stripped := strings.TrimSpace(annotationPattern.ReplaceAllString(line, ""))
		if caseNo == "" && looksLikeCaseNo(stripped) {
			caseNo = stripped
			continue
		}
		if stripped != line && stripped != "" {
			titleParts = append(titleParts, stripped)
			continue
		}
		titleParts = append(titleParts, line)
	}

	return caseNo, strings.Join(titleParts, " "), true
}

// looksLikeCaseNo reports whether value has the shape of a case number:
// a short run of letters, digits, hyphens and underscores. Real case
// numbers are alphanumeric codes, so anything containing CJK is out.
func looksLikeCaseNo(value string) bool {
	if value == "" || len(value) > maxCaseNoLen {
		return false
	}
	if containsCJK(value) {
		return false
	}
	return caseNoPattern.MatchString(value)
}

func containsCJK(value string) bool {
	for _, r := range value {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
