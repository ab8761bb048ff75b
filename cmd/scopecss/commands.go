package main

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"scopecss/compile"
	"scopecss/config"
)

func zipCodePageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "force-zip-cp",
		Usage: "force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)",
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:         "compile",
		Usage:        "Compiles stylesheet(s) into css scoped to a class",
		OnUsageError: usageErrorHandler,
		Action:       compile.Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: config.OutputFmtCss.String(),
				Usage: "output `TYPE` (supported types: " + strings.Join(config.OutputFmtNames(), ", ") + ")"},
			&cli.StringFlag{Name: "class", Usage: "scope all stylesheets to class `NAME` instead of one produced by configured template"},
			&cli.BoolFlag{Name: "global", Aliases: []string{"g"}, Usage: "produce global styles, no scoping class"},
			&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "do not keep input directory structure in output"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
			zipCodePageFlag(),
		},
		ArgsUsage: "SOURCE [DESTINATION]",
		CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    "-" - read single stylesheet from standard input
    path to a file: "[path_to_file]file.css"
    path to a directory: "[path_to_directory]directory" - recursively process all files under directory (symbolic links are not followed)
    path to archive with path inside archive to a particular file: "[path_to_archive]archive.zip[path_in_archive]/file.css"
    path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - recursively process all css files under archive path

    In directories and archives only files with .css extension are considered,
    archives inside archives are not looked into.

DESTINATION:
    "-" - write everything to standard output
    path ending with ".zip" - put results into new archive
    any other path is a directory, output names are derived from source names and output type
    if absent - current working directory
`, cli.CommandHelpTemplate),
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:         "check",
		Usage:        "Parses stylesheet(s) reporting errors, nothing is written",
		OnUsageError: usageErrorHandler,
		Action:       compile.Check,
		Flags:        []cli.Flag{zipCodePageFlag()},
		ArgsUsage:    "SOURCE",
		CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    same as for compile command, errors are printed to standard error with
    offending line of the stylesheet
`, cli.CommandHelpTemplate),
	}
}
