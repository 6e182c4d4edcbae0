package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/onelang/onec/codegen"
	"github.com/onelang/onec/compiler"
)

const manifestName = "one.module.yaml"

type oneModule struct {
	Package    string `yaml:"package"`
	EntryPoint string `yaml:"entry_point,omitempty"`
}

func readManifest() (oneModule, bool) {
	data, err := ioutil.ReadFile(manifestName)
	if err != nil {
		return oneModule{}, false
	}

	var doc oneModule
	if err := yaml.Unmarshal(data, &doc); err != nil {
		fmt.Printf("error reading %s: %s\n", manifestName, err)
		os.Exit(1)
	}

	return doc, true
}

func main() {
	app := &cli.App{
		Name:  "onec",
		Usage: "1 language bootstrap compiler",
		ExitErrHandler: func(context *cli.Context, err error) {
			if err != nil {
				log.Fatalf("error with onec: %s", err)
			}
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a module in this directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						fmt.Println("no module name provided")
						os.Exit(1)
					}

					out, err := yaml.Marshal(oneModule{
						Package:    name,
						EntryPoint: "main",
					})
					if err != nil {
						return err
					}

					return ioutil.WriteFile(manifestName, out, 0o644)
				},
			},
			{
				Name:  "build",
				Usage: "compile a .one file to bytecode",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "bytecode output file (.1bc)",
					},
					&cli.BoolFlag{
						Name:    "disassemble",
						Aliases: []string{"t"},
						Usage:   "print the disassembled module",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
					},
					&cli.BoolFlag{
						Name:    "debug",
						Aliases: []string{"d"},
					},
				},
				Action: func(c *cli.Context) error {
					input := c.Args().First()
					if input == "" {
						fmt.Println("no input file provided")
						os.Exit(1)
					}

					out := c.String("output")
					doc, haveManifest := readManifest()
					if out == "" && haveManifest {
						out = doc.Package + ".1bc"
					}

					comp := compiler.Compiler{
						Verbose: c.Bool("verbose"),
						Debug:   c.Bool("debug"),
					}

					module, err := comp.CompileFile(input)
					if err != nil {
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}

					if haveManifest && doc.EntryPoint != "" {
						module.EntryPoint = doc.EntryPoint
					}

					if out != "" {
						data, err := codegen.EncodeModule(module)
						if err != nil {
							return err
						}
						if err := ioutil.WriteFile(out, data, 0o644); err != nil {
							return err
						}
						if c.Bool("verbose") {
							fmt.Printf("Bytecode saved to %s\n", out)
						}
					}

					if c.Bool("disassemble") {
						fmt.Println("\n=== Disassembly ===")
						fmt.Println(codegen.DisassembleModule(module))
					}

					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
