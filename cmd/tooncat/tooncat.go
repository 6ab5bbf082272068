package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-toon"
	"github.com/goccy/go-toon/lexer"
	"github.com/goccy/go-toon/printer"
	flags "github.com/jessevdk/go-flags"
	colorable "github.com/mattn/go-colorable"
)

type option struct {
	LineNumber bool `short:"n" long:"line-number" description:"print line numbers"`
	Check      bool `short:"c" long:"check" description:"decode the file strictly and report the first error"`
}

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

func _main(args []string) error {
	var opts option
	files, err := flags.ParseArgs(&opts, args)
	if err != nil {
		return err
	}
	if len(files) < 1 {
		return fmt.Errorf("tooncat: usage: tooncat [-n] [-c] file.toon")
	}
	filename := files[0]
	bytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	if opts.Check {
		var v interface{}
		if err := toon.Unmarshal(bytes, &v); err != nil {
			return err
		}
	}
	tokens := lexer.Tokenize(string(bytes))
	var p printer.Printer
	p.LineNumber = opts.LineNumber
	p.LineNumberFormat = func(num int) string {
		fn := color.New(color.Bold, color.FgHiWhite).SprintFunc()
		return fn(fmt.Sprintf("%2d | ", num))
	}
	p.Bool = func() *printer.Property {
		return &printer.Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.Number = func() *printer.Property {
		return &printer.Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.MapKey = func() *printer.Property {
		return &printer.Property{
			Prefix: format(color.FgHiCyan),
			Suffix: format(color.Reset),
		}
	}
	p.Marker = func() *printer.Property {
		return &printer.Property{
			Prefix: format(color.FgHiYellow),
			Suffix: format(color.Reset),
		}
	}
	p.String = func() *printer.Property {
		return &printer.Property{
			Prefix: format(color.FgHiGreen),
			Suffix: format(color.Reset),
		}
	}
	writer := colorable.NewColorableStdout()
	writer.Write([]byte(p.PrintTokens(tokens) + "\n"))
	return nil
}

func main() {
	if err := _main(os.Args[1:]); err != nil {
		fmt.Printf("%v\n", toon.FormatError(err, true, true))
		os.Exit(1)
	}
}
