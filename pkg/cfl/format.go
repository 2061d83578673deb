package cfl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minFenceLength = 3

// FormatBlock renders entry as a fenced block: the opening fence carries the
// relative path, the body is the content verbatim. The fence is longer than
// any backtick run inside the content, so embedded fences cannot close it.
// A path containing a line break or starting with a double quote is written
// as a Go quoted string.
func FormatBlock(entry FileEntry) string {
	fence := fenceFor(entry.Content)
	header := encodeHeader(entry.Path)
	var b strings.Builder
	b.Grow(len(entry.Content) + len(header) + 2*len(fence) + 3)
	b.WriteString(fence)
	b.WriteString(header)
	b.WriteByte('\n')
	b.Write(entry.Content)
	b.WriteByte('\n')
	b.WriteString(fence)
	b.WriteByte('\n')
	return b.String()
}

// ParseBlock is the inverse of FormatBlock. The fence length is taken from
// the closing line, so paths starting with a backtick survive.
func ParseBlock(block string) (path string, content []byte, err error) {
	rest, ok := strings.CutSuffix(block, "\n")
	if !ok {
		return "", nil, errors.New("block is not terminated")
	}
	n := 0
	for n < len(rest) && rest[len(rest)-1-n] == '`' {
		n++
	}
	if n < minFenceLength {
		return "", nil, errors.New("block is missing its closing fence")
	}
	fence := rest[len(rest)-n:]
	rest = rest[:len(rest)-n]
	if !strings.HasPrefix(rest, fence) {
		return "", nil, errors.New("block does not start with its closing fence")
	}
	if rest, ok = strings.CutSuffix(rest[n:], "\n"); !ok {
		return "", nil, errors.New("block is missing its closing fence")
	}
	header, body, ok := strings.Cut(rest, "\n")
	if !ok {
		return "", nil, errors.New("block header is not terminated")
	}
	if path, err = decodeHeader(header); err != nil {
		return "", nil, err
	}
	return path, []byte(body), nil
}

func encodeHeader(path string) string {
	if strings.ContainsAny(path, "\r\n") || strings.HasPrefix(path, `"`) {
		return strconv.Quote(path)
	}
	return path
}

func decodeHeader(header string) (string, error) {
	if !strings.HasPrefix(header, `"`) {
		return header, nil
	}
	path, err := strconv.Unquote(header)
	if err != nil {
		return "", fmt.Errorf("malformed quoted path %s: %w", header, err)
	}
	return path, nil
}

// JoinBlocks concatenates formatted blocks with one blank line between them.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n")
}

func fenceFor(content []byte) string {
	longest, run := 0, 0
	for _, c := range content {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := longest + 1
	if n < minFenceLength {
		n = minFenceLength
	}
	return strings.Repeat("`", n)
}
