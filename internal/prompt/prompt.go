// Package prompt reads interactive answers from the user.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrQuit is returned when the user chooses to quit instead of answering.
var ErrQuit = errors.New("quit")

// affirmative answers accepted by Confirm.
var affirmative = map[string]bool{"y": true, "yes": true, "sure": true}

// Prompter asks questions on w and reads answers from r.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// readLine returns the next trimmed line. io.EOF is returned only when no
// text was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only y, yes and sure (any case) confirm;
// end of input counts as no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n) ", question)
	answer, err := p.readLine()
	if err == io.EOF {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	return affirmative[strings.ToLower(answer)], nil
}

// Ask prints question and returns the trimmed answer. End of input yields "".
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	answer, err := p.readLine()
	if err == io.EOF {
		fmt.Fprintln(p.out)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return answer, nil
}

// ChooseIndex asks for a number in [0, n) until one is given. "q" or end of
// input returns ErrQuit.
func (p *Prompter) ChooseIndex(question string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("nothing to choose from")
	}
	for {
		fmt.Fprintf(p.out, "%s (a number between 0 and %d, q to quit): ", question, n-1)
		answer, err := p.readLine()
		if err == io.EOF {
			fmt.Fprintln(p.out)
			return 0, ErrQuit
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read input: %w", err)
		}
		if strings.EqualFold(answer, "q") {
			return 0, ErrQuit
		}
		i, convErr := strconv.Atoi(answer)
		if convErr == nil && i >= 0 && i < n {
			return i, nil
		}
		fmt.Fprintf(p.out, "Index should be a number between 0 and %d\n", n-1)
	}
}

// ChooseFrom is ChooseIndex restricted to the given candidate values.
func (p *Prompter) ChooseFrom(question string, candidates []int) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("nothing to choose from")
	}
	allowed := make(map[int]bool, len(candidates))
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		allowed[c] = true
		labels[i] = strconv.Itoa(c)
	}
	for {
		fmt.Fprintf(p.out, "%s [%s] (q to quit): ", question, strings.Join(labels, ", "))
		answer, err := p.readLine()
		if err == io.EOF {
			fmt.Fprintln(p.out)
			return 0, ErrQuit
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read input: %w", err)
		}
		if strings.EqualFold(answer, "q") {
			return 0, ErrQuit
		}
		if i, convErr := strconv.Atoi(answer); convErr == nil && allowed[i] {
			return i, nil
		}
		fmt.Fprintf(p.out, "Choose one of: %s\n", strings.Join(labels, ", "))
	}
}
