package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether the slash-separated relative path rel matches
// pattern. "**" matches any number of segments, including none, and "{a,b}"
// alternates.
func Match(pattern, rel string) bool {
	ok, err := doublestar.Match(strings.Trim(pattern, "/"), strings.Trim(rel, "/"))
	return err == nil && ok
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Includes reports whether the file at rel is a source: it matches one of
// the source patterns and no exclude pattern.
func (c *Config) Includes(rel string) bool {
	if c.Excludes(rel, false) {
		return false
	}
	for _, pattern := range c.Sources {
		if Match(pattern, rel) {
			return true
		}
	}
	return false
}

// Excludes reports whether rel is excluded. A pattern ending in "/" names a
// directory anywhere in the tree, a pattern without "/" matches the base name
// and any other pattern matches the whole path.
func (c *Config) Excludes(rel string, isDir bool) bool {
	segments := splitPath(rel)
	if len(segments) == 0 {
		return false
	}
	dirs := segments[:len(segments)-1]
	if isDir {
		dirs = segments
	}
	base := segments[len(segments)-1]

	for _, pattern := range c.Exclude {
		switch {
		case strings.HasSuffix(pattern, "/"):
			dirPattern := strings.TrimSuffix(pattern, "/")
			if strings.Contains(dirPattern, "/") {
				for i := 1; i <= len(dirs); i++ {
					if Match(dirPattern, strings.Join(dirs[:i], "/")) {
						return true
					}
				}
				continue
			}
			for _, d := range dirs {
				if Match(dirPattern, d) {
					return true
				}
			}
		case !strings.Contains(pattern, "/"):
			if !isDir && Match(pattern, base) {
				return true
			}
		default:
			if Match(pattern, rel) {
				return true
			}
		}
	}
	return false
}
