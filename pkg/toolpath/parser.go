package toolpath

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every error the parser reports for malformed input.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates malformed G-code input
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, pos %d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

type word struct {
	letter rune
	text   string
	value  float64
	col    int
}

// ParseFile reads a G-code file and returns its toolpath
func ParseFile(filename string) (Toolpath, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// ParseString parses G-code text
func ParseString(input string) (Toolpath, error) {
	return Parse(strings.NewReader(input))
}

// Parse reads line-oriented G-code. Each block becomes one command per G/M code;
// mode changes (G90, G17, ...) come first, and the lettered parameters attach to
// the last remaining code. Blocks that carry position words but no code continue
// the active motion mode.
func Parse(reader io.Reader) (Toolpath, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		path   Toolpath
		motion string
		lineNo int
	)

	for scanner.Scan() {
		lineNo++
		words, err := tokenize(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		if len(words) == 0 {
			continue
		}

		var (
			modal  []string
			other  []string
			params = make(map[rune]float64)
		)

		for _, w := range words {
			switch w.letter {
			case 'N':
				// line numbers carry no geometry
			case 'G', 'M':
				name := string(w.letter) + w.text
				if Classify(name).IsModal() {
					modal = append(modal, name)
				} else {
					other = append(other, name)
				}
			default:
				if _, dup := params[w.letter]; dup {
					return nil, &SyntaxError{lineNo, w.col, fmt.Sprintf("duplicate parameter %c", w.letter)}
				}
				params[w.letter] = w.value
			}
		}

		for _, name := range modal {
			path = append(path, NewCommand(name, nil))
		}

		if len(other) == 0 {
			if movesTool(params) {
				path = append(path, NewCommand(motion, params))
			}
			continue
		}

		for i, name := range other {
			var p map[rune]float64
			if i == len(other)-1 {
				p = params
			}
			cmd := NewCommand(name, p)
			path = append(path, cmd)

			switch {
			case cmd.Kind().IsMotion():
				motion = cmd.Name
			case cmd.Name == "G80":
				motion = ""
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read toolpath: %w", err)
	}

	return path, nil
}

// movesTool reports whether a block without a code carries position words.
// Feed, speed and tool words alone do not repeat the active motion.
func movesTool(params map[rune]float64) bool {
	for _, letter := range "XYZIJK" {
		if _, ok := params[letter]; ok {
			return true
		}
	}
	return false
}

// tokenize splits one line into address words, dropping comments.
func tokenize(line string, lineNo int) ([]word, error) {
	const (
		normal = iota
		comment
		number
	)

	var (
		words   []word
		state   = normal
		current word
		buffer  strings.Builder
	)

	fail := func(col int, msg string) error {
		return &SyntaxError{lineNo, col, msg}
	}

	finishWord := func() error {
		text := buffer.String()
		buffer.Reset()
		if text == "" {
			return fail(current.col, fmt.Sprintf("missing value for %c", current.letter))
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fail(current.col, fmt.Sprintf("invalid number %q for %c", text, current.letter))
		}
		current.text = text
		current.value = value
		words = append(words, current)
		return nil
	}

	runes := []rune(line)
	for idx := 0; idx < len(runes); idx++ {
		c := runes[idx]
		col := idx + 1

		switch state {
		case comment:
			if c == ')' {
				state = normal
			}
			continue

		case number:
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
				buffer.WriteRune(c)
				continue
			}
			if err := finishWord(); err != nil {
				return nil, err
			}
			state = normal
		}

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '%':
		case c == '(':
			state = comment
		case c == ';':
			return words, nil
		case c == '/':
			if len(strings.TrimSpace(string(runes[:idx]))) != 0 {
				return nil, fail(col, "unexpected /")
			}
			// block delete: the whole line is skipped
			return nil, nil
		case c >= 'a' && c <= 'z':
			current = word{letter: c - ('a' - 'A'), col: col}
			state = number
		case c >= 'A' && c <= 'Z':
			current = word{letter: c, col: col}
			state = number
		default:
			return nil, fail(col, fmt.Sprintf("expected word address, found %q", c))
		}
	}

	switch state {
	case comment:
		return nil, fail(len(runes), "non-terminated comment")
	case number:
		if err := finishWord(); err != nil {
			return nil, err
		}
	}

	return words, nil
}
