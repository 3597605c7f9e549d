// Package prompt implements the operator-facing side of license escalation:
// a numbered-menu console dialog asked once per unknown expression during an
// import.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oss-clearing/licsum/pkg/license"
)

// ConsoleDecider asks the operator what to do with a license expression the
// project has never seen. It satisfies license.Decider.
type ConsoleDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsoleDecider(in io.Reader, out io.Writer) *ConsoleDecider {
	return &ConsoleDecider{in: bufio.NewReader(in), out: out}
}

// Decide runs the escalation menu for one expression. Choosing to cancel
// returns license.ErrEscalationAbandoned, which aborts the whole import.
func (c *ConsoleDecider) Decide(ctx context.Context, expression, display string, categories []license.Category) (license.Decision, error) {
	for {
		fmt.Fprintf(c.out, "\nUnknown license expression: %s\n", display)
		if display != expression {
			fmt.Fprintf(c.out, "(categorized as: %s)\n", expression)
		}
		fmt.Fprintf(c.out, `
Options:
  1) Attach to an existing category
  2) Create a new category and attach
  3) Change the text shown in reports
  X) Cancel import
`)
		choice, err := c.ask("1", "2", "3", "x")
		if err != nil {
			return license.Decision{}, err
		}

		switch choice {
		case "1":
			cat, ok, err := c.pickCategory(categories)
			if err != nil {
				return license.Decision{}, err
			}
			if !ok {
				continue
			}
			return license.Decision{Action: license.BindExisting, Category: cat}, nil

		case "2":
			fmt.Fprintf(c.out, "Enter name for the new category (empty to go back):\n")
			name, err := c.readLine()
			if err != nil {
				return license.Decision{}, err
			}
			if name == "" {
				continue
			}
			return license.Decision{Action: license.CreateAndBind, NewCategoryName: name}, nil

		case "3":
			fmt.Fprintf(c.out, "Enter replacement text for %s (empty to go back):\n", display)
			text, err := c.readLine()
			if err != nil {
				return license.Decision{}, err
			}
			if text == "" {
				continue
			}
			return license.Decision{Action: license.AddConversion, NewDisplayText: text}, nil

		case "x":
			return license.Decision{}, license.ErrEscalationAbandoned
		}
	}
}

// pickCategory shows the numbered category list. ok is false when the
// operator backs out.
func (c *ConsoleDecider) pickCategory(categories []license.Category) (license.Category, bool, error) {
	fmt.Fprintf(c.out, "\nExisting categories:\n")
	valid := []string{"0"}
	for i, cat := range categories {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, cat.Name)
		valid = append(valid, strconv.Itoa(i+1))
	}
	fmt.Fprintf(c.out, "  0) None of these; go back\n")

	choice, err := c.ask(valid...)
	if err != nil {
		return license.Category{}, false, err
	}
	n, _ := strconv.Atoi(choice)
	if n == 0 {
		return license.Category{}, false, nil
	}
	return categories[n-1], true, nil
}

// ask re-prompts until the answer is one of the given choices
// (case-insensitive).
func (c *ConsoleDecider) ask(choices ...string) (string, error) {
	for {
		answer, err := c.readLine()
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, ch := range choices {
			if answer == ch {
				return answer, nil
			}
		}
		fmt.Fprintf(c.out, "Invalid choice %q; choose from %s\n", answer, strings.Join(choices, ", "))
	}
}

func (c *ConsoleDecider) readLine() (string, error) {
	fmt.Fprint(c.out, "==> ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading operator input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
