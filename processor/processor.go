// Package processor adapts site files to and from the translation core:
// markdown posts with YAML front matter, hand-written translations and the
// rendered HTML pages that receive the language switcher.
package processor
