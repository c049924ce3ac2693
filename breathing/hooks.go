package breathing

import (
	"fmt"
	"os/exec"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
)

// Hooks run when an exercise finishes on its own.
type Hooks interface {
	Notify(title, msg string) error
	Run(cmd string) error
}

// SystemHooks shows desktop notifications and runs shell commands.
type SystemHooks struct {
	Icon string
}

func (h SystemHooks) Notify(title, msg string) error {
	return beeep.Notify(title, msg, h.Icon)
}

// Run executes cmd without a shell. Quoting follows POSIX shell rules.
func (SystemHooks) Run(cmd string) error {
	name, args, err := splitCmd(cmd)
	if err != nil || name == "" {
		return err
	}

	return exec.Command(name, args...).Run()
}

func splitCmd(cmd string) (string, []string, error) {
	if cmd == "" {
		return "", nil, nil
	}

	cmdSlice, err := shellquote.Split(cmd)
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse breathing cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return "", nil, nil
	}

	return cmdSlice[0], cmdSlice[1:], nil
}
