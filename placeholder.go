package bilingo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// inlineFence matches triple-backtick spans outside fenced blocks.
var inlineFence = regexp.MustCompile("(?s)```.*?```")

// placeholderToken matches tokens produced by placeholder.
var placeholderToken = regexp.MustCompile(`\[CODE_BLOCK_(\d+)\]`)

func placeholder(i int) string {
	return fmt.Sprintf("[CODE_BLOCK_%d]", i)
}

// ProtectCodeBlocks replaces every fenced code block in body with a
// positional placeholder and returns the masked text along with the blocks in
// order.
//
// A fence opens on a line of three or more backticks, optionally indented and
// followed by an info string, and closes on the next line holding only a
// backtick run at least as long. Shorter fences inside it are part of the
// block. An opener that is never closed is left as text. Inline
// triple-backtick spans in the remaining text are protected as well.
func ProtectCodeBlocks(body string) (string, []string) {
	var blocks []string
	protect := func(block string) string {
		blocks = append(blocks, block)
		return placeholder(len(blocks) - 1)
	}

	var b strings.Builder
	prose := 0
	for pos := 0; pos < len(body); {
		end := lineEnd(body, pos)
		if indent, n := fenceOpen(body[pos:end]); n > 0 {
			if stop, ok := fenceClose(body, end, n); ok {
				start := pos + indent
				b.WriteString(inlineFence.ReplaceAllStringFunc(body[prose:start], protect))
				b.WriteString(protect(body[start:stop]))
				prose, pos = stop, stop
				continue
			}
		}
		pos = end + 1
	}
	b.WriteString(inlineFence.ReplaceAllStringFunc(body[prose:], protect))
	return b.String(), blocks
}

// lineEnd returns the index of the newline ending the line at pos, or len(s).
func lineEnd(s string, pos int) int {
	if i := strings.IndexByte(s[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(s)
}

// fenceOpen reports the indentation and backtick count of an opening fence
// line, or zero when line is not one.
func fenceOpen(line string) (indent, n int) {
	trimmed := strings.TrimLeft(line, " \t")
	n = backtickRun(trimmed)
	if n < 3 || strings.Contains(trimmed[n:], "`") {
		return 0, 0
	}
	return len(line) - len(trimmed), n
}

// fenceClose finds the line after from that closes a fence of n backticks and
// returns the index where that line ends.
func fenceClose(body string, from, n int) (int, bool) {
	for pos := from + 1; pos < len(body); {
		end := lineEnd(body, pos)
		trimmed := strings.TrimLeft(body[pos:end], " \t")
		if run := backtickRun(trimmed); run >= n && strings.TrimRight(trimmed[run:], " \t\r") == "" {
			return end, true
		}
		pos = end + 1
	}
	return 0, false
}

func backtickRun(s string) int {
	return len(s) - len(strings.TrimLeft(s, "`"))
}

// RestoreCodeBlocks substitutes placeholders with their original blocks.
//
// The masked text is scanned once, left to right. Each index is restored at
// its first occurrence only, and restored text is never rescanned, so a block
// that itself contains a placeholder-looking token stays intact.
func RestoreCodeBlocks(masked string, blocks []string) string {
	if len(blocks) == 0 {
		return masked
	}

	used := make([]bool, len(blocks))
	var b strings.Builder
	last := 0
	for _, m := range placeholderToken.FindAllStringSubmatchIndex(masked, -1) {
		idx, err := strconv.Atoi(masked[m[2]:m[3]])
		if err != nil || idx < 0 || idx >= len(blocks) || used[idx] {
			continue
		}
		used[idx] = true
		b.WriteString(masked[last:m[0]])
		b.WriteString(blocks[idx])
		last = m[1]
	}
	b.WriteString(masked[last:])
	return b.String()
}
