package httpimport

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// PatchRule rewrites the content of a known-broken upstream module.
type PatchRule struct {
	Name  string
	Match *regexp.Regexp              // tested against the normalized module URL
	Apply func(content string) string // returns content unchanged when the fix no longer applies
}

// Patches is applied, in order, to every downloaded module.
var Patches = []PatchRule{
	{
		// esm.sh answers this dayjs file with a default export the bundled
		// plugin cannot consume; switch back to the named exports it needs.
		// e.g. https://esm.sh/v99/dayjs@1.11.6/es2022/esm/plugin/localizedFormat/utils.js
		Name:  "dayjs-localized-format-utils",
		Match: regexp.MustCompile(`https*://[^/]+/v\d+/dayjs.*/plugin/localizedFormat/utils.js`),
		Apply: ReplaceLiteral("export{i as default}", "export const{englishFormats,t,u}=i"),
	},
	{
		// histogram-date-range picks dayjs/esm/index.js, which lacks .year() and
		// friends at runtime. Import the top-level dayjs package instead.
		// e.g. https://esm.sh/v99/@internetarchive/histogram-date-range@0.1.7/es2022/histogram-date-range.js
		Name:  "histogram-date-range-dayjs",
		Match: regexp.MustCompile(`https*://[^/]+/v\d+/@internetarchive/histogram-date-range[^/]+/[^/]+/histogram-date-range\.js`),
		Apply: ReplaceFirstMatch(regexp.MustCompile(`dayjs([^/]+)/[^/]+/esm/index\.js`), "/dayjs${1}"),
	},
}

// ReplaceLiteral returns a transform replacing the first occurrence of old.
func ReplaceLiteral(old, replacement string) func(string) string {
	return func(s string) string {
		return strings.Replace(s, old, replacement, 1)
	}
}

// ReplaceFirstMatch returns a transform replacing the first match of re.
// The template is expanded as in regexp.Regexp.Expand.
func ReplaceFirstMatch(re *regexp.Regexp, template string) func(string) string {
	return func(s string) string {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			return s
		}
		var b strings.Builder
		b.Grow(len(s))
		b.WriteString(s[:loc[0]])
		b.Write(re.ExpandString(nil, template, s, loc))
		b.WriteString(s[loc[1]:])
		return b.String()
	}
}

// ApplyPatches runs every rule whose pattern matches moduleURL. A matching rule
// that leaves the content untouched is reported as a warning, since it usually
// means upstream changed shape and the fix went stale.
func ApplyPatches(rules []PatchRule, moduleURL, content string, logger *log.Logger) string {
	for _, rule := range rules {
		if !rule.Match.MatchString(moduleURL) {
			continue
		}
		logger.Warn("applying patch", "rule", rule.Name, "url", moduleURL)

		patched := rule.Apply(content)
		if patched == content {
			logger.Warn("patch had no effect", "rule", rule.Name, "url", moduleURL)
			continue
		}
		content = patched
	}
	return content
}
