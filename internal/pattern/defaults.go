package pattern

import (
	"regexp"
	"strings"

	"github.com/harrison/unusedres/internal/models"
)

// LiteralRegex matches a double-quoted literal with no path separator, quote
// or whitespace inside, capturing the body.
const LiteralRegex = `"([^"/\\\s]+)"`

// Regexes for specific file kinds.
const (
	objcLiteralRegex  = `@"([^"/\\\s]+)"`
	ibImageRegex      = `image(?:\s+name|Name)?\s*=\s*"([^"]+?)"`
	htmlSrcRegex      = `(?i)src\s*=\s*["']([^"']+?)["']`
	plistStringRegex  = `<string>([^<\s]+?)</string>`
	stringsValueRegex = `=\s*"([^"]+)"\s*;`
	rswiftImageRegex  = `R\.image\.([A-Za-z0-9_]+)\(\)`
	jsonValueRegex    = `:\s*"([^"/\\\s]+)"`
)

// quotedSourceTypes are source kinds whose string literals are scanned with
// LiteralRegex.
var quotedSourceTypes = []string{
	"h", "m", "mm", "c", "cpp", "swift", "java", "kt", "go",
	"js", "ts", "jsx", "tsx", "py", "rb", "dart",
}

// Defaults generates the built-in patterns for the given resource suffixes.
// Every common source type gets the quoted-literal pattern; some get extra
// patterns for their own reference syntax.
func Defaults(resourceSuffixes []string) []models.UsagePattern {
	var out []models.UsagePattern
	add := func(suffix, regex string) {
		out = append(out, models.UsagePattern{
			SourceSuffix: models.NormalizeSuffix(suffix),
			Enabled:      true,
			Regex:        regex,
			CaptureGroup: 1,
		})
	}

	fileRef := fileReferenceRegex(resourceSuffixes)

	for _, t := range quotedSourceTypes {
		add(t, LiteralRegex)
	}
	add("m", objcLiteralRegex)
	add("mm", objcLiteralRegex)
	add("swift", rswiftImageRegex)
	add("xib", ibImageRegex)
	add("storyboard", ibImageRegex)
	add("html", htmlSrcRegex)
	add("vue", htmlSrcRegex)
	add("json", jsonValueRegex)
	add("plist", plistStringRegex)
	add("strings", stringsValueRegex)
	add("xml", LiteralRegex)
	if fileRef != "" {
		add("html", fileRef)
		add("css", fileRef)
		add("scss", fileRef)
		add("less", fileRef)
		add("c", fileRef)
		add("cpp", fileRef)
	}
	return out
}

// Empty returns a blank enabled pattern ready to be filled in.
func Empty() models.UsagePattern {
	return models.UsagePattern{
		SourceSuffix: "",
		Enabled:      true,
		Regex:        "",
		CaptureGroup: 1,
	}
}

// fileReferenceRegex builds `([A-Za-z0-9_-]+)\.(png|jpg)` from the suffixes,
// capturing the base name of a file reference like url(img/bg.png).
func fileReferenceRegex(resourceSuffixes []string) string {
	var exts []string
	for _, s := range models.NormalizeSuffixes(resourceSuffixes) {
		exts = append(exts, regexp.QuoteMeta(strings.TrimPrefix(s, ".")))
	}
	if len(exts) == 0 {
		return ""
	}
	return `([A-Za-z0-9_@-]+)\.(?i:` + strings.Join(exts, "|") + `)\b`
}
