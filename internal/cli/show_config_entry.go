package corebench

import (
	"io"
	"os"

	"github.com/k0kubun/pp"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/report"
)

func runShowConfig(out io.Writer, cfg *appconfig.Config, dump bool) {
	file := ""
	if cfg != nil {
		file = cfg.ConfigPath
	}
	appconfig.ShowConfig(out, file, cfg)
	if !dump || cfg == nil {
		return
	}
	f, _ := out.(*os.File)
	pp.ColoringEnabled = report.ColorEnabled(f)
	io.WriteString(out, "\n")
	pp.Fprintln(out, *cfg)
}
