// Command cborcli is a manual test harness for the encoder core: build one
// item from a scripted op sequence, decode a hex blob back into a trace, or
// fuzz round-trip a batch of random sequences. None of this is part of the
// core's own API surface (spec.md §1 scopes a CLI harness out of core
// logic); it exists only to drive the library by hand.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/embedc-cbor/cbor"
)

func main() {
	root := &cobra.Command{
		Use:   "cborcli",
		Short: "Manual test harness for the embedc-cbor encoder core.",
	}
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newFuzzCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEncodeCmd() *cobra.Command {
	var bufferSize int
	cmd := &cobra.Command{
		Use:   "encode <script>",
		Short: "Build one encoded item from a scripted op sequence and print it as hex.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf := make([]byte, bufferSize)
			ctx := cbor.New(buf)
			if err := runScript(ctx, args[0]); err != nil {
				return err
			}
			out, err := ctx.Finish()
			if err != nil {
				color.Red("encode failed: %v", err)
				return err
			}
			fmt.Println(hex.EncodeToString(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&bufferSize, "buffer", 4096, "scratch buffer size in bytes")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a hex-encoded CBOR item and print a structured trace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(args[0])
			if err != nil {
				color.Red("invalid hex: %v", err)
				return err
			}
			if err := printTrace(cmd.OutOrStdout(), data); err != nil {
				color.Red("decode failed: %v", err)
				return err
			}
			return nil
		},
	}
	return cmd
}

func newFuzzCmd() *cobra.Command {
	var count int
	var seed int64
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Round-trip a batch of random item sequences and report mismatches.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Prefix = fmt.Sprintf("round-tripping %d sequences... ", count)
			s.Start()

			failures := runFuzzSweep(count, seed, func(done, total int) {
				s.Suffix = fmt.Sprintf(" %d/%d", done, total)
			})

			s.Stop()

			if len(failures) == 0 {
				green := color.New(color.FgGreen).SprintFunc()
				fmt.Printf("%s: %d/%d sequences round-tripped cleanly\n", green("ok"), count, count)
				return nil
			}

			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s: %d/%d sequences failed to round-trip\n", red("fail"), len(failures), count)
			for _, m := range failures {
				fmt.Printf("  [%d] %s\n", m.iteration, m.detail)
			}
			return fmt.Errorf("%d mismatches found", len(failures))
		},
	}
	cmd.Flags().IntVar(&count, "n", 1000, "number of random sequences to round-trip")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed, for reproducible runs")
	return cmd
}
