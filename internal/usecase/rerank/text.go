package rerank

import (
	"strings"

	"github.com/kailas-cloud/menurank/internal/domain"
)

// maxContentRunes caps how much of a document body goes into its embedding text.
const maxContentRunes = 500

// DocumentText is the text embedded for a catalog document: title, the menu item when it
// differs from the title, and the start of the content.
func DocumentText(fields map[string]string) string {
	title := strings.TrimSpace(fields[domain.FieldTitle])
	item := strings.TrimSpace(fields[domain.FieldMenuItem])
	content := strings.TrimSpace(fields[domain.FieldContent])

	parts := make([]string, 0, 3)
	if title != "" {
		parts = append(parts, title)
	}
	if item != "" && item != title {
		parts = append(parts, item)
	}
	if content != "" {
		if r := []rune(content); len(r) > maxContentRunes {
			content = string(r[:maxContentRunes])
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, " ")
}
