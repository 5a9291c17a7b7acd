package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/genai"
)

// Agent is a chat session between the user and the facilitator.
//
// Lines starting with a slash are shortcuts: "/orders" or "/topic backup" call the
// function of that name in Shortcuts directly, without asking the model.
type Agent struct {
	w           io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert
	Shortcuts   []Function
	// Render turns a markdown answer into the text to print. Answers are printed as
	// markdown when nil.
	Render func(markdown string) string
}

// New returns an Agent printing to 'w' and reading the user's lines from 'r'.
// The facilitator leads the conversation and asks the experts.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		in:          bufio.NewScanner(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens the chats of every expert and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	if err := a.Facilitator.Start(ctx, client); err != nil {
		return fmt.Errorf("cannot start %s: %w", a.Facilitator.Name, err)
	}
	return nil
}

const (
	prompt = "assist> "
	bye    = "bye"
)

// Run answers the 'prompts' first, then the lines read from the user, until "bye"
// or the end of the input. Chats not started yet are started with 'client'.
//
// A failed question is reported to the user and the session goes on.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.w, "Welcome to stk assist. Type '%s' to exit.\n", bye)
	if names := a.shortcutNames(); len(names) > 0 {
		fmt.Fprintf(a.w, "Shortcuts: %s\n", strings.Join(names, ", "))
	}

	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				fmt.Fprintln(a.w)
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			if !a.in.Scan() {
				fmt.Fprintln(a.w)
				return a.in.Err()
			}
			input = strings.TrimSpace(a.in.Text())
		}

		switch {
		case input == "":
			continue
		case input == bye:
			return nil
		case strings.HasPrefix(input, "/"):
			a.print(a.shortcut(ctx, input))
			continue
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Printf("assist-failed question=%q err=%q", input, err)
			fmt.Fprintf(a.w, "Error: %v\n", err)
			continue
		}
		a.print(text(content))
	}
}

// print writes a markdown answer, rendered when possible.
func (a *Agent) print(md string) {
	if a.Render != nil {
		md = a.Render(md)
	}
	fmt.Fprintln(a.w, strings.TrimRight(md, "\n"))
}

// shortcut calls the function named by 'input' and returns its markdown output.
// The rest of the line is the value of the function's only required argument.
func (a *Agent) shortcut(ctx context.Context, input string) string {
	name, arg, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	for _, f := range a.Shortcuts {
		d := f.Declaration()
		if d.Name != name {
			continue
		}
		args := map[string]any{}
		if arg = strings.TrimSpace(arg); arg != "" && d.Parameters != nil && len(d.Parameters.Required) == 1 {
			args[d.Parameters.Required[0]] = arg
		}
		resp := f.Call(ctx, name, args)
		if msg, ok := resp.Response["error"].(string); ok {
			return fmt.Sprintf("Error: %s", msg)
		}
		out, _ := resp.Response["output"].(string)
		return out
	}
	return fmt.Sprintf("Unknown command /%s.", name)
}

func (a *Agent) shortcutNames() []string {
	var names []string
	for _, f := range a.Shortcuts {
		names = append(names, "/"+f.Declaration().Name)
	}
	return names
}

// text returns the concatenated text parts of 'c'.
func text(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
