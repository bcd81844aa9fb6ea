package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/ethiery/isolation/config"
	"github.com/ethiery/isolation/eval"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"new", "show", "moves", "play", "auto", "selfplay", "match", "set",
	"opts", "tournament", "help", "exit",
}

var boolValues = []string{"true", "false"}

// optionValues lists the completable values of a `set` key.
func optionValues(key string) []string {
	switch key {
	case config.SearchMethod:
		return []string{"minimax", "alphabeta"}
	case config.SearchEval:
		return eval.Names()
	case config.Table:
		return []string{"map", "bounded", "none"}
	case config.Iterative, config.Reordering, config.Debug:
		return boolValues
	}
	return nil
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		argn := len(fields)
		if endsWithSpace {
			argn++
		}
		switch fields[0] {
		case "set":
			if argn == 2 {
				completions = optionKeys
			} else if argn == 3 {
				completions = optionValues(fields[1])
			}
		case "help":
			completions = commandNames
		case "match":
			completions = []string{"second"}
		case "tournament":
			if strings.HasPrefix(prefix, "-") {
				completions = []string{"-log", "-roster"}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
