package engine

import "strings"

// Category selects which curated channel set a topic maps to.
type Category string

const (
	CatPython     Category = "python"
	CatJavaScript Category = "javascript"
	CatJava       Category = "java"
	CatWeb        Category = "web"
	CatGeneral    Category = "general"
)

// DetectCategory classifies a topic by simple pattern matching.
// Pure string matching, no IO. The order matters: "javascript" must win
// over the "java" substring it contains.
func DetectCategory(topic string) Category {
	t := strings.ToLower(topic)

	switch {
	case strings.Contains(t, "python"):
		return CatPython
	case strings.Contains(t, "javascript"), strings.Contains(t, "js"):
		return CatJavaScript
	case strings.Contains(t, "java"):
		return CatJava
	case strings.Contains(t, "web"), strings.Contains(t, "html"), strings.Contains(t, "css"):
		return CatWeb
	}
	return CatGeneral
}
