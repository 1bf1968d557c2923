// Command cssdoc is the command-line front end for pkg/cssdoc: read a
// stylesheet from a file or stdin, run it through the refinement/plugin
// pipeline, and write the result to a file or stdout.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cssdoc/cssdoc/internal/compat"
	"github.com/cssdoc/cssdoc/internal/exitcode"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/pkg/cssdoc"
)

const version = "0.1.0"

var helpText = func(colors logger.Colors) string {
	return `
` + colors.Bold + `Usage:` + colors.Reset + `
  cssdoc [options] [input-file]

` + colors.Bold + `Options:` + colors.Reset + `
  -h, --help              Show this message
  --version               Print the current version (` + version + `) and exit
  --outfile=PATH          Write output to PATH instead of stdout
  --mode=...              Output style: verbose | inline | compressed
                          (default verbose)
  --prefix                Mirror selectors needing a vendor prefix for the
                          engines named by --target or --browsers
  --target=ENGINE:V,...   Comma-separated support matrix, e.g.
                          chrome:90,firefox:78,safari:13.1
  --browsers=PATH         Load a YAML support matrix from PATH instead of
                          --target
  --prune                 Drop prefixed selector variants no engine in the
                          support matrix still needs (only with --prefix)
  --collect               Keep processing past the first diagnostic instead
                          of stopping at the first one
  --trace                 Print the CLI's own progress to stderr

` + colors.Bold + `Examples:` + colors.Reset + `
  cssdoc input.css --outfile=output.css
  cssdoc --prefix --target=firefox:40 --mode=compressed < input.css
`
}

func main() {
	osArgs := os.Args[1:]

	var (
		inputFile  string
		outputFile string
		modeFlag   = "verbose"
		prefix     bool
		prune      bool
		target     string
		browsers   string
		collect    bool
		trace      bool
	)

	for _, arg := range osArgs {
		switch {
		case arg == "-h" || arg == "-help" || arg == "--help":
			fmt.Print(helpText(terminalColors(os.Stdout)))
			os.Exit(0)

		case arg == "--version":
			fmt.Println(version)
			os.Exit(0)

		case strings.HasPrefix(arg, "--outfile="):
			outputFile = arg[len("--outfile="):]

		case strings.HasPrefix(arg, "--mode="):
			modeFlag = arg[len("--mode="):]

		case arg == "--prefix":
			prefix = true

		case arg == "--prune":
			prune = true

		case strings.HasPrefix(arg, "--target="):
			target = arg[len("--target="):]

		case strings.HasPrefix(arg, "--browsers="):
			browsers = arg[len("--browsers="):]

		case arg == "--collect":
			collect = true

		case arg == "--trace":
			trace = true

		case strings.HasPrefix(arg, "-"):
			exitWithError(fmt.Sprintf("unknown flag %q", arg))

		default:
			if inputFile != "" {
				exitWithError(fmt.Sprintf("unexpected extra argument %q (input was already %q)", arg, inputFile))
			}
			inputFile = arg
		}
	}

	log := logrus.New()
	log.Out = os.Stderr
	if trace {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	os.Exit(run(runArgs{
		inputFile:  inputFile,
		outputFile: outputFile,
		modeFlag:   modeFlag,
		prefix:     prefix,
		prune:      prune,
		target:     target,
		browsers:   browsers,
		collect:    collect,
		trace:      log,
	}))
}

type runArgs struct {
	inputFile  string
	outputFile string
	modeFlag   string
	prefix     bool
	prune      bool
	target     string
	browsers   string
	collect    bool
	trace      *logrus.Logger
}

func run(a runArgs) int {
	a.trace.WithField("input", orStdin(a.inputFile)).Debug("reading source")

	source, err := readSource(a.inputFile)
	if err != nil {
		return exitcode.Get(exitcode.Set(err, 1))
	}

	mode, err := parseMode(a.modeFlag)
	if err != nil {
		return exitcode.Get(exitcode.Set(err, 1))
	}

	opts := cssdoc.Options{Mode: mode}
	if a.collect {
		opts.ErrorPolicy = cssdoc.ErrorPolicyCollect
	} else {
		opts.ErrorPolicy = cssdoc.ErrorPolicyThrow
	}

	if a.prefix {
		constraints, err := resolveConstraints(a.target, a.browsers)
		if err != nil {
			return exitcode.Get(exitcode.Set(err, 1))
		}
		opts.Prefix = &cssdoc.PrefixOptions{Constraints: constraints, Prune: a.prune}
		a.trace.WithField("engines", len(constraints)).Debug("vendor prefixing enabled")
	}

	ss, msgs, err := cssdoc.Process(source, opts)
	for _, m := range msgs {
		logger.PrintMsg(os.Stderr, m)
	}
	if err != nil {
		return exitcode.Get(exitcode.Set(err, 1))
	}

	output := cssdoc.Write(ss, mode)
	if writeErr := writeOutput(a.outputFile, output); writeErr != nil {
		return exitcode.Get(exitcode.Set(writeErr, 1))
	}

	a.trace.Debug("done")
	return 0
}

func orStdin(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

func readSource(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	return string(b), nil
}

func writeOutput(path string, output string) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, output)
		return err
	}
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

func parseMode(modeFlag string) (cssdoc.Mode, error) {
	switch modeFlag {
	case "verbose":
		return cssdoc.Verbose, nil
	case "inline":
		return cssdoc.Inline, nil
	case "compressed":
		return cssdoc.Compressed, nil
	default:
		return 0, fmt.Errorf("invalid --mode %q (expected verbose, inline, or compressed)", modeFlag)
	}
}

// resolveConstraints builds a support matrix from --browsers (a YAML file,
// parsed via pkg/cssdoc.LoadSupportMatrix) if given, otherwise from --target
// (a comma-separated ENGINE:VERSION list), otherwise returns an empty matrix,
// for which RequiredPrefixes reports that no prefix is needed.
func resolveConstraints(target, browsersFile string) (map[compat.Engine][]int, error) {
	if browsersFile != "" {
		data, err := os.ReadFile(browsersFile)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", browsersFile, err)
		}
		return cssdoc.LoadSupportMatrix(data)
	}
	if target == "" {
		return nil, nil
	}

	out := map[compat.Engine][]int{}
	for _, entry := range strings.Split(target, ",") {
		name, versionText, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid --target entry %q (expected ENGINE:VERSION)", entry)
		}
		engine, ok := compat.StringToEngine[name]
		if !ok {
			return nil, fmt.Errorf("unknown browser engine %q in --target", name)
		}
		version, err := parseVersion(versionText)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q for engine %q in --target: %w", versionText, name, err)
		}
		out[engine] = version
	}
	return out, nil
}

func parseVersion(text string) ([]int, error) {
	parts := strings.Split(text, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func exitWithError(text string) {
	fmt.Fprintln(os.Stderr, "error: "+text)
	os.Exit(1)
}

func terminalColors(file *os.File) logger.Colors {
	return logger.GetTerminalInfo(file).Colors()
}
