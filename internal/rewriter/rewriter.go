package rewriter

import (
	"regexp"
	"strings"
)

var (
	sizeSuffixRe = regexp.MustCompile(`-(\d+x\d+)(\.[A-Za-z0-9]+)$`)
	extensionRe  = regexp.MustCompile(`(\.[A-Za-z0-9]+)$`)
)

// Rewrite maps a local media URL to its remote counterpart. A -WxH
// dimension suffix in the local URL (a derivative variant) is carried
// over onto the remote primary URL, since derivatives live next to the
// primary in the mirrored tree. An empty primaryURL leaves the local
// URL untouched.
func Rewrite(primaryURL, localURL string) string {
	if primaryURL == "" {
		return localURL
	}

	if m := sizeSuffixRe.FindStringSubmatch(localURL); m != nil {
		return extensionRe.ReplaceAllString(primaryURL, "-"+m[1]+"$1")
	}
	return primaryURL
}

// RewriteSrcset rewrites every URL in a srcset attribute value,
// preserving the width descriptors.
func RewriteSrcset(primaryURL, srcset string) string {
	if primaryURL == "" {
		return srcset
	}

	entries := strings.Split(srcset, ",")
	for i, entry := range entries {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		fields[0] = Rewrite(primaryURL, fields[0])
		entries[i] = strings.Join(fields, " ")
	}
	return strings.Join(entries, ", ")
}

// RewriteContent replaces every uploads URL in an HTML fragment using
// the supplied resolver, which maps a local URL to a remote one (or
// returns it unchanged when the asset is not synced).
func RewriteContent(content, uploadsBaseURL string, resolve func(localURL string) string) string {
	if uploadsBaseURL == "" {
		return content
	}
	urlRe := regexp.MustCompile(regexp.QuoteMeta(uploadsBaseURL) + `[^\s"'<>]+`)
	return urlRe.ReplaceAllStringFunc(content, resolve)
}
