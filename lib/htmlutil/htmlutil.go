package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// JoinedText collects the text of every text node under `node`, trims
// each fragment and joins them with `sep`. Server-rendered detail cells
// interleave text with <br> and heading tags, so plain concatenation
// would glue unrelated fragments together.
func JoinedText(node *html.Node, sep string) string {
	var fragments []string
	collectTextRecursive(node, &fragments)
	return strings.Join(fragments, sep)
}

func collectTextRecursive(node *html.Node, fragments *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		text := strings.Trim(node.Data, " \t\n")
		if text != "" {
			*fragments = append(*fragments, text)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		collectTextRecursive(child, fragments)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText normalizes scraped text: strips non-printable runes, trims
// the ends and collapses runs of inner whitespace into a single space.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}
