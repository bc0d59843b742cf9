package douyin

import "strings"

// rewriteRule maps a media host substring that is unreachable from restricted
// network locations to a mirror that serves the same content.
type rewriteRule struct {
	pattern     string
	replacement string
}

// The table is ordered and applied once per rule, so a URL may be rewritten by
// several rules in sequence. Replacements never contain a source pattern,
// which keeps NormalizeURL idempotent.
var rewriteRules = []rewriteRule{
	{"v26-web.douyinvod.com", "v26.douyinvod.com"},
	{"v3-web.douyinvod.com", "v3.douyinvod.com"},
	{"aweme.snssdk.com", "api.amemv.com"},
}

// NormalizeURL rewrites known-unreachable media hosts to reachable mirrors.
// The substitution is purely textual, not URL-structure aware.
func NormalizeURL(url string) string {
	for _, rule := range rewriteRules {
		url = strings.Replace(url, rule.pattern, rule.replacement, 1)
	}

	return url
}
