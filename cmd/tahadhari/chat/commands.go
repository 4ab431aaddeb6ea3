package chatcmder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tahadhari/tahadhari/pkg/conversation"
	"github.com/tahadhari/tahadhari/pkg/llm"
)

var errUnknownCommand = errors.New("unknown command")

const commandHelp = `/image <path>   attach an image to the next message
/noimage        drop the attached image
/lang <lang>    switch language: primary (en) or secondary (sw)
/dictate        fill the prompt by speaking
/quit           leave the chat`

// slashCommand is a line starting with "/".
type slashCommand struct {
	name string
	arg  string
}

func parseSlash(line string) (slashCommand, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return slashCommand{}, false
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	return slashCommand{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

// applySlash runs the commands that finish immediately. /dictate blocks and is
// run by the caller.
func applySlash(ctrl *conversation.Controller, sc slashCommand) (notice string, quit bool, err error) {
	switch sc.name {
	case "quit", "exit", "q":
		return "", true, nil
	case "help", "?":
		return commandHelp, false, nil
	case "image":
		if sc.arg == "" {
			return "", false, fmt.Errorf("usage: /image <path>")
		}
		if err := ctrl.StageImageFile(sc.arg); err != nil {
			return "", false, err
		}
		staged := ctrl.Staged()
		return fmt.Sprintf("%s: %s", ctrl.Session().Strings().ImageStaged, staged.Ref.Name), false, nil
	case "noimage":
		ctrl.ClearImage()
		return "", false, nil
	case "lang":
		lang, err := llm.ParseLanguage(sc.arg)
		if err != nil {
			return "", false, err
		}
		if err := ctrl.Session().SetLanguage(lang); err != nil {
			return "", false, err
		}
		return ctrl.Session().Strings().Title, false, nil
	}
	return "", false, fmt.Errorf("%w: /%s", errUnknownCommand, sc.name)
}
