package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// Command is a top-level menu entry.
type Command int

const (
	CmdGenerate Command = iota + 1
	CmdView
	CmdSave
	CmdClear
	CmdFilter
	CmdCustom
	CmdSearch
	CmdIndexSearch
	CmdCredentials
	CmdExport
	CmdTutorials
	CmdViewStored
	CmdExit
)

var commandLabels = map[Command]string{
	CmdGenerate:    "Generate Google Dorks",
	CmdView:        "View Generated Dorks",
	CmdSave:        "Save Generated Dorks to File",
	CmdClear:       "Clear Selections",
	CmdFilter:      "Advanced Filtering",
	CmdCustom:      "Custom Dork Generation",
	CmdSearch:      "Automated Search",
	CmdIndexSearch: "Shodan Integration",
	CmdCredentials: "API Keys",
	CmdExport:      "Enhanced Output Options",
	CmdTutorials:   "Interactive Tutorials",
	CmdViewStored:  "View Database Dorks",
	CmdExit:        "Exit",
}

func (c Command) String() string {
	if s, ok := commandLabels[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand decodes a menu line. Anything other than 1..13 is
// engine.ErrInvalidChoice.
func ParseCommand(s string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(CmdGenerate) || n > int(CmdExit) {
		return 0, fmt.Errorf("%w: %q", engine.ErrInvalidChoice, strings.TrimSpace(s))
	}
	return Command(n), nil
}

// stopSelecting is the index that ends selection and starts generation.
var stopSelecting = len(engine.Catalog) + 1

// parseSelection splits a comma-separated selection line. If any token is
// not an index in 1..stopSelecting the whole line is rejected and the bad
// tokens are returned.
func parseSelection(line string) (indices []int, invalid []string) {
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > stopSelecting {
			invalid = append(invalid, tok)
			continue
		}
		indices = append(indices, n)
	}
	if len(invalid) > 0 {
		return nil, invalid
	}
	return indices, nil
}

// splitList splits a comma-separated line, trimming each item and dropping
// blanks.
func splitList(line string) []string {
	var out []string
	for _, item := range strings.Split(line, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// maskKey shows the first four characters of a secret.
func maskKey(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return "****"
	}
	return string(r[:4]) + "****"
}
