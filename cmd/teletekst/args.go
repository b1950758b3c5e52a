package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
)

type args struct {
	configPath string
	logPath    string
	logLevel   string

	page    int // -1 when not given or malformed
	subpage int // -1 when not given or malformed

	// warnings lists ignored values, logged once the logger is up.
	warnings []string
}

// parseArgs reads the command line. It is lenient: unknown arguments, flags
// without a value and malformed page numbers are ignored with a warning, so
// the viewer always starts. Only -h fails, to print the usage.
func parseArgs(argv []string, output io.Writer) (args, error) {
	fs := flag.NewFlagSet("teletekst", flag.ContinueOnError)
	fs.SetOutput(output)

	var page, subpage string
	a := args{page: -1, subpage: -1}

	fs.StringVar(&page, "page", "", "Teletext page to show at startup")
	fs.StringVar(&page, "pagina", "", "Teletext page to show at startup (alias)")
	fs.StringVar(&subpage, "subpage", "", "Subpage to show at startup")
	fs.StringVar(&subpage, "subpagina", "", "Subpage to show at startup (alias)")
	fs.StringVar(&a.configPath, "config", os.Getenv(constants.ConfigPathEnvVar), "Path to the TOML configuration file")
	fs.StringVar(&a.logPath, "log", "", "Path to the log file (overrides [log] path)")
	fs.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	known, warnings := knownFlags(fs, argv)
	a.warnings = warnings
	if err := fs.Parse(known); err != nil {
		return args{}, err
	}

	if page != "" {
		if n, err := strconv.Atoi(page); err == nil && n >= 0 {
			a.page = n
		} else {
			a.warnings = append(a.warnings, fmt.Sprintf("ignoring page %q", page))
		}
	}
	if subpage != "" {
		if n, err := strconv.Atoi(subpage); err == nil && n >= 1 {
			a.subpage = n
		} else {
			a.warnings = append(a.warnings, fmt.Sprintf("ignoring subpage %q", subpage))
		}
	}
	return a, nil
}

// apply overrides cfg with the command line values.
func (a args) apply(cfg *config.Config) {
	if a.page >= 0 {
		cfg.Page.Default = a.page
	}
	if a.subpage >= 1 {
		cfg.Page.DefaultSubpage = a.subpage
	}
	if a.logPath != "" {
		cfg.Log.Path = a.logPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
}

// knownFlags keeps the arguments fs defines, rewritten as -name=value, and
// returns a warning for everything it drops.
func knownFlags(fs *flag.FlagSet, argv []string) ([]string, []string) {
	var known, warnings []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name := strings.TrimLeft(arg, "-")
		if name == arg || name == "" {
			warnings = append(warnings, fmt.Sprintf("ignoring argument %q", arg))
			continue
		}
		if name == "h" || name == "help" {
			known = append(known, arg)
			continue
		}

		value, hasValue := "", false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value, hasValue = name[:eq], name[eq+1:], true
		}
		if fs.Lookup(name) == nil {
			warnings = append(warnings, fmt.Sprintf("ignoring unknown argument %q", arg))
			continue
		}
		if !hasValue {
			if i+1 >= len(argv) {
				warnings = append(warnings, fmt.Sprintf("ignoring %q without a value", arg))
				continue
			}
			i++
			value = argv[i]
		}
		known = append(known, "-"+name+"="+value)
	}
	return known, warnings
}
