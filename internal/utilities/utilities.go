package utilities

import "strings"

// RemoveArticle strips a leading French article so titles sort on their first
// meaningful word ("Le Samouraï" sorts under S).
func RemoveArticle(input string) string {
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "l'") {
		return input[2:]
	}
	for _, article := range []string{"le ", "la ", "les ", "un ", "une ", "des "} {
		if strings.HasPrefix(lower, article) {
			return input[len(article):]
		}
	}
	return input
}
