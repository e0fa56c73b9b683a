package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book [command] [root] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build site pages, PDFs and ebooks (default)")
	fmt.Fprintln(w, "  doctor     Check the external tools")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2book help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book build [root] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the book found in root (default: current directory).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default: book.yml)")
	fmt.Fprintln(w, "  -r, --root <dir>          Book root directory")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: target)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory searched for templates/<name>.tex")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stages:")
	fmt.Fprintln(w, "      --skip-site           Do not write the Jekyll pages")
	fmt.Fprintln(w, "      --skip-pdf            Do not typeset PDFs")
	fmt.Fprintln(w, "      --skip-ebook          Do not convert ebooks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --log-file <path>     Also write a debug log")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2BOOK_CONFIG, MD2BOOK_ROOT, MD2BOOK_OUTPUT_DIR,")
	fmt.Fprintln(w, "  MD2BOOK_ASSET_PATH, MD2BOOK_LOG_FILE   defaults for the flags above")
	fmt.Fprintln(w, "  ebook_convert_path                     ebook-convert binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage or config, 3 I/O,")
	fmt.Fprintln(w, "            4 missing tool, 5 TeX error")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) int {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdBuild:
		printBuildUsage(deps.Stdout)
	case cmdDoctor:
		fmt.Fprintln(deps.Stdout, "Usage: md2book doctor [--json]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Report the external tools the build needs and their versions.")
	case cmdVersion:
		fmt.Fprintln(deps.Stdout, "Usage: md2book version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(deps.Stdout, "Usage: md2book help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
