package config

//go:generate go tool go-enum --marshal --names --values

// Requested output type.
// ENUM(css, ast, yaml)
type OutputFmt int

// Ext returns file extension for produced output.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtCss:
		return ".css"
	case OutputFmtAst:
		return ".ast.txt"
	case OutputFmtYaml:
		return ".yaml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
