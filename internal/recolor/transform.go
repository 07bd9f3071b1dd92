/*
	Text-level rewrite of an SVG root tag: drop the existing fill and force a new one.
	The document is never parsed; only the first <svg ...> opening tag is touched.
*/

package recolor

import (
	"regexp"
	"strings"
)

const DefaultFill = "white"

var (
	// <svg up to the first '>', attributes optional; also the bare <svg/>.
	rootTagRe  = regexp.MustCompile(`<svg(?:\s[^>]*|/)?>`)
	fillAttrRe = regexp.MustCompile(`\s+fill="[^"]*?"`)
)

type Options struct {
	Fill     string
	StripAll bool
}

func (o Options) fill() string {
	if o.Fill == "" {
		return DefaultFill
	}
	return o.Fill
}

// Transform rewrites the root tag of text. found is false when the
// document has no <svg> tag, in which case text is returned as is.
func Transform(text string, opts Options) (out string, found bool) {
	loc := rootTagRe.FindStringIndex(text)
	if loc == nil {
		return text, false
	}

	tag := text[loc[0]:loc[1]]
	return text[:loc[0]] + rewriteTag(tag, opts) + text[loc[1]:], true
}

// HasFill reports whether the root tag of text carries a double-quoted fill attribute.
func HasFill(text string) bool {
	tag := rootTagRe.FindString(text)
	return tag != "" && fillAttrRe.MatchString(tag)
}

func rewriteTag(tag string, opts Options) string {
	// body is everything between "<svg" and the closing ">" or "/>"
	body := strings.TrimSuffix(strings.TrimPrefix(tag, "<svg"), ">")
	closing := ">"
	if strings.HasSuffix(body, "/") {
		body = strings.TrimSuffix(body, "/")
		closing = "/>"
	}

	if opts.StripAll {
		body = fillAttrRe.ReplaceAllString(body, "")
	} else if loc := fillAttrRe.FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + body[loc[1]:]
	}

	return "<svg" + body + ` fill="` + opts.fill() + `"` + closing
}
