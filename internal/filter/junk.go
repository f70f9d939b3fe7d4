package filter

import (
	"regexp"
	"strings"
)

// junkPatterns lists OS-generated incidental files by basename.
var junkPatterns = []string{
	`^npm-debug\.log$`,
	`^\..*\.swp$`,
	`^\.DS_Store$`,
	`^\.AppleDouble$`,
	`^\.LSOverride$`,
	`^Icon\r$`,
	`^\._.*`,
	`^\.Spotlight-V100$`,
	`\.Trashes`,
	`^__MACOSX$`,
	`~$`,
	`^Thumbs\.db$`,
	`^ehthumbs\.db$`,
	`^Desktop\.ini$`,
	`@eaDir$`,
}

var junkRe = regexp.MustCompile(strings.Join(junkPatterns, "|"))

// IsJunk reports whether the basename name is an OS junk file.
func IsJunk(name string) bool {
	return junkRe.MatchString(name)
}
