package listener

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("input aborted")

var rl *readline.Instance
var mu sync.Mutex
var holdAsync bool
var heldLines []string

// Lines are written here when no terminal is attached.
var out io.Writer = os.Stdout

func Init() error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	return err
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if rl != nil {
		_ = rl.Close()
		rl = nil
	}
}

func BeginInteractive() {
	mu.Lock()
	holdAsync = true
	mu.Unlock()
}

func EndInteractive() {
	mu.Lock()
	defer mu.Unlock()
	holdAsync = false
	for _, s := range heldLines {
		printAboveUnlocked(s)
	}
	heldLines = nil
}

func printAboveUnlocked(s string) {
	if rl == nil {
		fmt.Fprintln(out, s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}

func PrintAbove(s string) {
	mu.Lock()
	defer mu.Unlock()
	printAboveUnlocked(s)
}

// AsyncPrintln prints s above the prompt, or holds it while an interactive
// prompt is open.
func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if holdAsync {
		heldLines = append(heldLines, s)
		return
	}
	printAboveUnlocked(s)
}

// Prompt reads one trimmed line with the given prompt.
func Prompt(prompt string) (string, error) {
	mu.Lock()
	inst := rl
	mu.Unlock()
	if inst == nil {
		return "", fmt.Errorf("terminal input is not initialised")
	}

	old := inst.Config.Prompt
	inst.SetPrompt(prompt)
	defer inst.SetPrompt(old)

	line, err := inst.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func AskYesNo(question string) bool {
	BeginInteractive()
	defer EndInteractive()

	PrintAbove(question + " [y/n]")

	for {
		ans, err := Prompt("> ")
		if err != nil {
			return false
		}
		if yes, ok := parseYesNo(ans); ok {
			return yes
		}
		PrintAbove("Please answer y/n.")
	}
}

// Alert shows a blocking message and waits for the user to acknowledge it.
func Alert(msg string) {
	BeginInteractive()
	defer EndInteractive()

	PrintAbove(msg)
	_, _ = Prompt("[press enter] ")
}

func parseYesNo(ans string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}
