package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/mxtool/mx/editop"
	"github.com/mxtool/mx/preview"
	"github.com/mxtool/mx/xmlgap"
)

func runEdit(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		cfg.Cmd.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var opName, value, path string
	switch len(args) {
	case 2:
		opName, path = args[0], args[1]
	case 3:
		opName, value, path = args[0], args[1], args[2]
	default:
		return fmt.Errorf("%w: want <op> [value] <file>", cli.ErrUsage)
	}

	op, err := editop.Lookup(opName)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if op.Dialect != cfg.Dialect {
		return fmt.Errorf("%w: %s is a %s operation", cli.ErrUsage, op.Name, op.Dialect)
	}

	path, err = resolvePath(path)
	if err != nil {
		return err
	}
	doc, err := xmlgap.Load(path)
	if err != nil {
		return err
	}
	before := doc.Bytes()

	log := editop.NewLog(cc.Out, cfg.colored(cc.Out))
	cx := editop.NewContext(doc, log)
	cx.DataSet = cfg.DataSet
	cx.Variant = cfg.Variant
	cx.NoCascade = cfg.NoCascade
	if cfg.Where != "" {
		pred, err := editop.CompileWhere(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		cx.Where = pred
	}

	if err := editop.Run(cx, op, value); err != nil {
		return err
	}
	log.Infof("%s", log.Summary())

	if cfg.Diff {
		fmt.Fprint(cc.Out, preview.Diff(before, doc.Bytes(), cfg.colored(cc.Out)))
		return nil
	}
	outPath := path
	if cfg.Out != "" {
		outPath = cfg.Out
	}
	if err := doc.Save(outPath); err != nil {
		return err
	}
	log.OK("saved %s", outPath)
	return nil
}

// resolvePath accepts either a concrete XML file or a template
// directory, probing the designer's Ext/Template.xml layout.
func resolvePath(p string) (string, error) {
	if !strings.HasSuffix(p, ".xml") {
		candidate := filepath.Join(p, "Ext", "Template.xml")
		if _, err := os.Stat(candidate); err == nil {
			p = candidate
		}
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("file not found: %s", p)
	}
	return p, nil
}
