// Package shell is the interactive readline front end: it owns a live
// board, an engine built from the current options, and a small command
// language for poking at both.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/ethiery/isolation/config"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/player"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need a value")
	errNoGame            = errors.New("no game in progress, start one with `new`")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// CmdOptions are the -key value pairs of a shell line.
type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, positional arguments and
// -key value options. Quoting works the way a shell's would.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	lastWasOption := false
	lastOption := ""
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			lastWasOption = true
			lastOption = strings.TrimPrefix(fields[idx], "-")
			continue
		}
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = append(options[lastOption], fields[idx])
		} else {
			args = append(args, fields[idx])
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type ShellController struct {
	l *readline.Instance
	w io.Writer

	cfg     *config.Config
	options *Options

	board   *game.Board
	engines [2]*player.AI
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.w)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := &ShellController{cfg: cfg, options: NewOptions(cfg)}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31misolation>\033[0m ",
		HistoryFile:     "/tmp/isolation-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.w = l.Stderr()
	return sc
}

// Execute runs one command line and returns what to print. It is also
// the seam the tests drive.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves", "m":
		return sc.moves(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "auto", "a":
		return sc.auto(cmd)
	case "selfplay":
		return sc.selfplay(cmd)
	case "match":
		return sc.match(cmd)
	case "set":
		return sc.set(cmd)
	case "opts", "options":
		return msg(sc.options.ToDisplayText()), nil
	case "tournament":
		return sc.tournament(cmd)
	case "help":
		return sc.help(cmd)
	default:
		m := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(m)
		return nil, errors.New(m)
	}
}

// ExecuteLine runs one command and prints whatever it has to say. Empty
// lines are ignored.
func (sc *ShellController) ExecuteLine(line string) {
	resp, err := sc.Execute(line)
	if err != nil {
		if !errors.Is(err, errNoData) {
			sc.showError(err)
		}
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" || line == "quit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		sc.ExecuteLine(line)
	}
	log.Debug().Msg("exiting readline loop")
}
