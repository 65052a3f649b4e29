package main

import (
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"

	"github.com/mxtool/mx/dialect"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=nocolor desc='disable colored output'"`

	Main *cli.Command
}

// colored decides whether audit lines and diffs go out with color:
// explicit flags win, otherwise color follows the terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.NoColor {
		return false
	}
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type EditConfig struct {
	*MainConfig

	NoCascade bool `cli:"name=noCascade desc='skip selection upkeep on field adds and removes'"`
	Diff      bool `cli:"name=diff desc='print the change as a diff without writing'"`

	DataSet string
	Variant string
	Where   string
	Out     string

	Dialect dialect.Name
	Cmd     *cli.Command
}

type OpsConfig struct {
	*MainConfig

	Ops *cli.Command
}

func stringOpt(p *string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		*p = v
		return v, nil
	})
}
