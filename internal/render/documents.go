package render

import "strings"

// DocumentsMarkdown formats a required-documents list as a markdown
// blockquote under heading. It returns "" for an empty list.
func DocumentsMarkdown(heading string, docs []string) string {
	if len(docs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("> **")
	sb.WriteString(heading)
	sb.WriteString("**\n>\n")
	for _, doc := range docs {
		sb.WriteString("> - ")
		sb.WriteString(doc)
		sb.WriteString("\n")
	}
	return sb.String()
}
