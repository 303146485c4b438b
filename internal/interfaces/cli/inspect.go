package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/domain/chain"
)

// inspectOptions holds flags for the inspect command.
type inspectOptions struct {
	strict bool
}

// NewInspectCmd creates the `polychain inspect` command.
func NewInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file.xyz>",
		Short: "Report the structure of an XYZ document",
		Long: "Inspect parses an XYZ file (or stdin when the argument is \"-\") and\n" +
			"reports atom counts, element composition, bounding box, and any lines a\n" +
			"lenient parse had to drop.",
		Example: `  polychain inspect chain.xyz
  polychain inspect chain.xyz --strict
  polychain inspect chain.xyz -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on malformed lines instead of dropping them")
	return cmd
}

func runInspect(cmd *cobra.Command, source string, opts *inspectOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	data, err := readSource(cmd, source)
	if err != nil {
		return err
	}

	var report *polymer.InspectReport
	if cliCtx.Client != nil {
		remote, err := cliCtx.Client.Inspect(cmd.Context(), data, opts.strict)
		if err != nil {
			return err
		}
		report = &polymer.InspectReport{
			Comment:       remote.Comment,
			DeclaredCount: remote.DeclaredCount,
			AtomCount:     remote.AtomCount,
			Elements:      remote.Elements,
			SkippedLines:  remote.SkippedLines,
			BoundsMin:     chain.Vec3{X: remote.BoundsMin.X, Y: remote.BoundsMin.Y, Z: remote.BoundsMin.Z},
			BoundsMax:     chain.Vec3{X: remote.BoundsMax.X, Y: remote.BoundsMax.Y, Z: remote.BoundsMax.Z},
		}
	} else {
		var err error
		report, err = cliCtx.Service.Inspect(data, opts.strict)
		if err != nil {
			return err
		}
	}

	if cliCtx.OutputFormat == "json" {
		return PrintResult(cmd, report)
	}
	return PrintResult(cmd, formatInspectReport(report))
}

// formatInspectReport renders the report for terminal reading.
func formatInspectReport(r *polymer.InspectReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comment:        %s\n", r.Comment)
	fmt.Fprintf(&sb, "Declared atoms: %d\n", r.DeclaredCount)
	fmt.Fprintf(&sb, "Parsed atoms:   %d\n", r.AtomCount)

	elements := make([]string, 0, len(r.Elements))
	for e := range r.Elements {
		elements = append(elements, e)
	}
	sort.Strings(elements)
	rows := make([][]string, 0, len(elements))
	for _, e := range elements {
		rows = append(rows, []string{e, strconv.Itoa(r.Elements[e])})
	}
	if len(rows) > 0 {
		sb.WriteString("\n")
		sb.WriteString(FormatTable([]string{"Element", "Count"}, rows))
	}

	fmt.Fprintf(&sb, "\nBounds min:     (%.6f, %.6f, %.6f)\n", r.BoundsMin.X, r.BoundsMin.Y, r.BoundsMin.Z)
	fmt.Fprintf(&sb, "Bounds max:     (%.6f, %.6f, %.6f)\n", r.BoundsMax.X, r.BoundsMax.Y, r.BoundsMax.Z)

	if len(r.SkippedLines) > 0 {
		skipped := make([]string, len(r.SkippedLines))
		for i, n := range r.SkippedLines {
			skipped[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(&sb, "Skipped lines:  %s\n", strings.Join(skipped, ", "))
	}
	return sb.String()
}
