package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/pkg/client"
	"github.com/polyforge/polychain/pkg/errors"
)

// repeatOptions holds flags for the repeat command.
type repeatOptions struct {
	units   int
	offsetX float64
	offsetY float64
	offsetZ float64
	strict  bool
	comment string
	outFile string
	saveAs  string
}

// NewRepeatCmd creates the `polychain repeat` command.
func NewRepeatCmd() *cobra.Command {
	opts := &repeatOptions{}

	cmd := &cobra.Command{
		Use:   "repeat <monomer.xyz>",
		Short: "Tile a monomer structure along a translation axis",
		Long: "Repeat reads a monomer from an XYZ file (or stdin when the argument\n" +
			"is \"-\"), places N translated copies, and prints the combined XYZ\n" +
			"document. Malformed lines are dropped by default; --strict makes them\n" +
			"fatal.",
		Example: `  polychain repeat monomer.xyz --units 20
  polychain repeat monomer.xyz --units 5 --offset-x 2.5 --offset-z 0
  cat monomer.xyz | polychain repeat - --units 3 --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepeat(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.units, "units", "n", 0, "number of monomer copies (required)")
	f.Float64Var(&opts.offsetX, "offset-x", 0, "per-copy translation along X")
	f.Float64Var(&opts.offsetY, "offset-y", 0, "per-copy translation along Y")
	f.Float64Var(&opts.offsetZ, "offset-z", 0, "per-copy translation along Z (default from config)")
	f.BoolVar(&opts.strict, "strict", false, "fail on malformed lines instead of dropping them")
	f.StringVar(&opts.comment, "comment", "", "comment line for the output document (default: monomer's comment)")
	f.StringVar(&opts.outFile, "out", "", "write the XYZ document to this file instead of stdout")
	f.StringVar(&opts.saveAs, "save-as", "", "also save the document in the output directory under this name")
	_ = cmd.MarkFlagRequired("units")

	return cmd
}

func runRepeat(cmd *cobra.Command, source string, opts *repeatOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	monomer, err := readSource(cmd, source)
	if err != nil {
		return err
	}

	req := polymer.RepeatRequest{
		Units:   opts.units,
		Strict:  opts.strict,
		Comment: opts.comment,
		SaveAs:  opts.saveAs,
	}
	if cmd.Flags().Changed("offset-x") || cmd.Flags().Changed("offset-y") || cmd.Flags().Changed("offset-z") {
		req.Offset = &chain.Vec3{X: opts.offsetX, Y: opts.offsetY, Z: opts.offsetZ}
	}

	var payload interface{}
	var xyzText string
	var skipped []int
	if cliCtx.Client != nil {
		creq := client.RepeatRequest{
			Units:   req.Units,
			Strict:  req.Strict,
			Comment: req.Comment,
			SaveAs:  req.SaveAs,
		}
		if req.Offset != nil {
			creq.Offset = &client.Vec3{X: req.Offset.X, Y: req.Offset.Y, Z: req.Offset.Z}
		}
		res, err := cliCtx.Client.Repeat(cmd.Context(), monomer, creq)
		if err != nil {
			return err
		}
		payload, xyzText, skipped = res, res.XYZ, res.SkippedLines
	} else {
		res, err := cliCtx.Service.Repeat(monomer, req)
		if err != nil {
			return err
		}
		payload, xyzText, skipped = res, res.XYZ, res.SkippedLines
	}

	if len(skipped) > 0 {
		cliCtx.Logger.Warn("dropped malformed lines from monomer",
			logging.Int("count", len(skipped)),
			logging.Any("lines", skipped))
	}

	return emitXYZResult(cmd, cliCtx, opts.outFile, xyzText, payload)
}

// readSource reads the monomer document from a file path or stdin ("-").
func readSource(cmd *cobra.Command, source string) ([]byte, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.SourceUnavailable("stdin").WithCause(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.SourceUnavailable(source).WithCause(err)
	}
	return data, nil
}
