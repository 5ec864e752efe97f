package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/gerunddev/roamweb/render"
)

// Render converts a local file to enhanced HTML on stdout or into -o.
func Render(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	format := fs.String("format", "auto", "input format: auto, org or markdown")
	out := fs.String("o", "", "write output to file instead of stdout")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fail("no input file specified")
	}
	input := fs.Arg(0)

	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.cleanup()

	data, err := os.ReadFile(input)
	if err != nil {
		fail("failed to read %s: %v", input, err)
	}

	opts := render.Options{Styles: e.styles}
	switch *format {
	case "org":
		opts.Dialect = render.DialectOrg
	case "markdown":
		opts.Dialect = render.DialectMarkdown
	case "auto":
	default:
		fail("unknown format %q", *format)
	}

	html, err := render.HTML(string(data), opts)
	if err != nil {
		e.log.RenderFailed(input, err)
		fail("render failed: %v", err)
	}

	if *out == "" {
		fmt.Println(html)
		return
	}
	if err := os.WriteFile(*out, []byte(html), 0644); err != nil {
		fail("failed to write %s: %v", *out, err)
	}
	success("Wrote %s", *out)
}
