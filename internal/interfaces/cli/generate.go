package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/pkg/client"
)

// generateOptions holds flags for the generate command.
type generateOptions struct {
	units        int
	bondAngle    float64
	torsionAngle float64
	bondLength   float64
	element      string
	comment      string
	outFile      string
	saveAs       string
}

// NewGenerateCmd creates the `polychain generate` command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a polymer chain from bond parameters",
		Long: "Generate constructs a chain of N atoms placed by the bond angle,\n" +
			"torsion angle, and bond length, and prints the XYZ document to stdout\n" +
			"(text mode) or a JSON summary (--output json).",
		Example: `  polychain generate --units 10
  polychain generate --units 50 --bond-angle 109.5 --element Si
  polychain generate --units 10 --out chain.xyz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.units, "units", "n", 0, "number of atoms in the chain (required)")
	f.Float64Var(&opts.bondAngle, "bond-angle", 0, "in-plane bond angle in degrees (default from config)")
	f.Float64Var(&opts.torsionAngle, "torsion-angle", 0, "out-of-plane torsion angle in degrees")
	f.Float64Var(&opts.bondLength, "bond-length", 0, "distance between consecutive atoms (default from config)")
	f.StringVar(&opts.element, "element", "", "element symbol for every atom (default from config)")
	f.StringVar(&opts.comment, "comment", "", "comment line for the XYZ document")
	f.StringVar(&opts.outFile, "out", "", "write the XYZ document to this file instead of stdout")
	f.StringVar(&opts.saveAs, "save-as", "", "also save the document in the output directory under this name")
	_ = cmd.MarkFlagRequired("units")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	req := polymer.GenerateRequest{
		Units:   opts.units,
		Element: opts.element,
		Comment: opts.comment,
		SaveAs:  opts.saveAs,
	}
	// Only explicitly set flags override the configured defaults, so that
	// --torsion-angle 0 still means zero rather than "unset".
	if cmd.Flags().Changed("bond-angle") {
		req.BondAngle = &opts.bondAngle
	}
	if cmd.Flags().Changed("torsion-angle") {
		req.TorsionAngle = &opts.torsionAngle
	}
	if cmd.Flags().Changed("bond-length") {
		req.BondLength = &opts.bondLength
	}

	var payload interface{}
	var xyzText string
	if cliCtx.Client != nil {
		res, err := cliCtx.Client.Generate(cmd.Context(), client.GenerateRequest{
			Units:        req.Units,
			BondAngle:    req.BondAngle,
			TorsionAngle: req.TorsionAngle,
			BondLength:   req.BondLength,
			Element:      req.Element,
			Comment:      req.Comment,
			SaveAs:       req.SaveAs,
		})
		if err != nil {
			return err
		}
		payload, xyzText = res, res.XYZ
	} else {
		res, err := cliCtx.Service.Generate(req)
		if err != nil {
			return err
		}
		payload, xyzText = res, res.XYZ
	}

	return emitXYZResult(cmd, cliCtx, opts.outFile, xyzText, payload)
}

// emitXYZResult writes the document to --out when given, then prints either
// the JSON payload or the raw XYZ text per the output format.
func emitXYZResult(cmd *cobra.Command, cliCtx *CLIContext, outFile, xyzText string, payload interface{}) error {
	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(xyzText), 0o644); err != nil {
			return err
		}
		if cliCtx.OutputFormat == "json" {
			return PrintResult(cmd, payload)
		}
		return nil
	}
	if cliCtx.OutputFormat == "json" {
		return PrintResult(cmd, payload)
	}
	return PrintResult(cmd, xyzText)
}
