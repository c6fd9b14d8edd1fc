// Command alpacamorph is a local CLI wrapper around the alpaca module,
// useful for inspecting how a given page would be morphed without
// wiring up a full host server.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.alpaca.dev/morph"
	"go.alpaca.dev/morph/resourcemap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "morph":
		runMorph(os.Args[2:])
	case "required-files":
		runRequiredFiles(os.Args[2:])
	case "inline-css":
		runInlineCSS(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// morph [flags] <file.html>
// ---------------------------------------------------------------------------

func runMorph(args []string) {
	fs := flag.NewFlagSet("morph", flag.ExitOnError)
	probabilistic := fs.Bool("probabilistic", true, "use probabilistic morphing")
	distHTMLSize := fs.String("dist-html-size", "Normal(5000, 800)", "HTML size distribution descriptor")
	distObjNum := fs.String("dist-obj-num", "Uniform(5, 20)", "object count distribution descriptor")
	distObjSize := fs.String("dist-obj-size", "Pareto(100, 1.5)", "object size distribution descriptor")
	objNum := fs.Int("obj-num", 4, "deterministic-mode object count multiple")
	objSize := fs.Int("obj-size", 256, "deterministic-mode object size multiple")
	maxObjSize := fs.Int("max-obj-size", 65536, "deterministic-mode max padding-object size")
	inlining := fs.Bool("inlining", false, "enable object inlining")
	resourceDir := fs.String("resources", "", "directory to resolve sub-resources from")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: alpacamorph morph [flags] <file.html>")
		os.Exit(1)
	}

	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}

	store := resourcemap.NewMapStore()
	if *resourceDir != "" {
		if err := loadResourceDir(store, *resourceDir); err != nil {
			fmt.Fprintf(os.Stderr, "loading resources: %v\n", err)
			os.Exit(1)
		}
	}

	info := &alpaca.MorphInfo{
		Probabilistic: *probabilistic,
		DistHTMLSize:  *distHTMLSize,
		DistObjNum:    *distObjNum,
		DistObjSize:   *distObjSize,
		ObjNum:        *objNum,
		ObjSize:       *objSize,
		MaxObjSize:    *maxObjSize,

		ObjInliningEnabled: *inlining,
	}

	result, err := alpaca.MorphHTML(info, content, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "morph failed: %v\n", err)
		os.Exit(1)
	}

	os.Stdout.Write(result.Content)
}

// ---------------------------------------------------------------------------
// required-files <file.html>
// ---------------------------------------------------------------------------

func runRequiredFiles(args []string) {
	fs := flag.NewFlagSet("required-files", flag.ExitOnError)
	cssOnly := fs.Bool("css", false, "list only stylesheet references")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: alpacamorph required-files [-css] <file.html>")
		os.Exit(1)
	}

	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}

	var names []string
	if *cssOnly {
		names, err = alpaca.GetRequiredCSSFiles(content)
	} else {
		names, err = alpaca.GetHTMLRequiredFiles(content)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing failed: %v\n", err)
		os.Exit(1)
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

// ---------------------------------------------------------------------------
// inline-css <file.html> <resources-dir>
// ---------------------------------------------------------------------------

func runInlineCSS(args []string) {
	fs := flag.NewFlagSet("inline-css", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: alpacamorph inline-css <file.html> <resources-dir>")
		os.Exit(1)
	}

	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}

	store := resourcemap.NewMapStore()
	if err := loadResourceDir(store, fs.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "loading resources: %v\n", err)
		os.Exit(1)
	}

	out, err := alpaca.InlineAllCSS(content, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inline-css failed: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

func loadResourceDir(store *resourcemap.MapStore, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return err
		}
		store.Set("/"+entry.Name(), data)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: alpacamorph <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  morph [flags] <file.html>        Morph a page and print the result")
	fmt.Fprintln(os.Stderr, "  required-files [-css] <file>     List sub-resource URIs to pre-fetch")
	fmt.Fprintln(os.Stderr, "  inline-css <file> <resources>    Collapse stylesheets into inline <style>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Run 'alpacamorph <command> -h' for command-specific flags.")
}
