// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MandatorySeparator splits mandatory from overridable arguments.
	MandatorySeparator = "--"
	// ChainSeparator ends a command.
	ChainSeparator = "&&"

	directivePrefix       = "@"
	commentPrefix         = "#"
	headerSeparatorPrefix = "@---"
)

// ErrReadCommandFile is returned when the command file content cannot be read.
var ErrReadCommandFile = errors.New("unable to read command file")

// TokenKind classifies a line of a command file.
type TokenKind int

const (
	// TokenArg is a plain argument.
	TokenArg TokenKind = iota
	// TokenDirective is an @name or @name=value line.
	TokenDirective
	// TokenMandatorySeparator is a line equal to "--".
	TokenMandatorySeparator
	// TokenChainSeparator is a line equal to "&&".
	TokenChainSeparator
	// TokenHeaderSeparator is a line starting with "@---".
	TokenHeaderSeparator
)

// String returns the name of the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenArg:
		return "arg"
	case TokenDirective:
		return "directive"
	case TokenMandatorySeparator:
		return "mandatory-separator"
	case TokenChainSeparator:
		return "chain-separator"
	case TokenHeaderSeparator:
		return "header-separator"
	default:
		return "unknown"
	}
}

// Token is a classified line. Line is 1-based.
type Token struct {
	Kind TokenKind
	Line int
	// Text is the trimmed line for arguments.
	Text string
	// Directive holds the name and value for TokenDirective.
	Directive Directive
}

// Directive is a parsed @name[=value] line.
type Directive struct {
	Name     string
	Value    string
	HasValue bool
}

// String renders the directive the way it is written in a file.
func (d Directive) String() string {
	if !d.HasValue {
		return directivePrefix + d.Name
	}

	return directivePrefix + d.Name + "=" + d.Value
}

// Tokenize classifies lines. Blank lines and comments produce no token.
func Tokenize(lines []string) []Token {
	tokens := make([]Token, 0, len(lines))

	for i, raw := range lines {
		if tok, ok := classify(raw, i+1); ok {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// ReadTokens tokenizes everything readable from r.
// The only failure is an I/O error, wrapped in ErrReadCommandFile.
func ReadTokens(r io.Reader) ([]Token, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w after line %d: %w", ErrReadCommandFile, len(lines), err)
	}

	return Tokenize(lines), nil
}

const maxLineLength = 1024 * 1024

func classify(raw string, line int) (Token, bool) {
	l := strings.TrimSpace(raw)

	switch {
	case l == "":
		return Token{}, false
	case strings.HasPrefix(l, commentPrefix):
		return Token{}, false
	case l == MandatorySeparator:
		return Token{Kind: TokenMandatorySeparator, Line: line, Text: l}, true
	case l == ChainSeparator:
		return Token{Kind: TokenChainSeparator, Line: line, Text: l}, true
	case strings.HasPrefix(l, headerSeparatorPrefix):
		return Token{Kind: TokenHeaderSeparator, Line: line, Text: l}, true
	case strings.HasPrefix(l, directivePrefix):
		name, value, hasValue := strings.Cut(strings.TrimPrefix(l, directivePrefix), "=")

		return Token{
			Kind: TokenDirective,
			Line: line,
			Text: l,
			Directive: Directive{
				Name:     name,
				Value:    value,
				HasValue: hasValue,
			},
		}, true
	default:
		return Token{Kind: TokenArg, Line: line, Text: l}, true
	}
}
