package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/pkg/frame"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func input(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

// linesCodec encodes text as a []string, one element per line, under the
// configured codec options.
func (a *app) linesCodec() (*tierbin.TypeCodec[[]string], error) {
	r := tierbin.NewRegistry(tierbin.WithOptions(a.cfg.Codec), tierbin.WithLogger(a.log))
	return tierbin.For[[]string](r)
}

func splitLines(text []byte) []string {
	s := strings.TrimSuffix(string(text), "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func (a *app) sealCmd() *cobra.Command {
	var (
		out         string
		compression string
		checksum    string
		lines       bool
	)
	cmd := &cobra.Command{
		Use:   "seal [file]",
		Short: "Wrap a payload in a frame",
		Long: `Seal reads a payload from file (or stdin) and writes one frame.

With --lines the input is first encoded as a tierbin list of strings, one
element per line, so that open --lines can validate it on the way out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Frame
			if cmd.Flags().Changed("compression") {
				c, err := frame.ParseCompression(compression)
				if err != nil {
					return err
				}
				opts.Compression = c
			}
			if cmd.Flags().Changed("checksum") {
				c, err := frame.ParseChecksum(checksum)
				if err != nil {
					return err
				}
				opts.Checksum = c
			}

			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			payload, err := io.ReadAll(in)
			in.Close()
			if err != nil {
				return err
			}
			if lines {
				tc, err := a.linesCodec()
				if err != nil {
					return err
				}
				if payload, err = tc.Marshal(splitLines(payload)); err != nil {
					return fmt.Errorf("encode lines: %w", err)
				}
			}

			data, err := frame.Seal(payload, opts)
			if err != nil {
				return err
			}
			h, err := frame.ReadHeader(data)
			if err != nil {
				return err
			}
			a.log.Info().
				Stringer("compression", h.Compression).
				Stringer("checksum", h.Checksum).
				Uint32("raw", h.RawLen).
				Uint32("body", h.BodyLen).
				Msg("sealed frame")

			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&compression, "compression", "", "body compression: none, lz4 or zstd")
	cmd.Flags().StringVar(&checksum, "checksum", "", "digest: crc32 or blake3")
	cmd.Flags().BoolVar(&lines, "lines", false, "encode the input as a list of lines")
	return cmd
}

// eachFrame calls fn for every frame in src until a clean end of input.
func (a *app) eachFrame(src io.Reader, fn func(i int, payload []byte, h frame.Header) error) error {
	for i := 0; ; i++ {
		payload, h, err := frame.Read(src, a.cfg.Frame)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := fn(i, payload, h); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
}

func (a *app) openCmd() *cobra.Command {
	var (
		out   string
		lines bool
	)
	cmd := &cobra.Command{
		Use:   "open [file]",
		Short: "Verify frames and write their payloads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tc *tierbin.TypeCodec[[]string]
			if lines {
				var err error
				if tc, err = a.linesCodec(); err != nil {
					return err
				}
			}
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()
			w, err := output(cmd, out)
			if err != nil {
				return err
			}

			err = a.eachFrame(in, func(i int, payload []byte, h frame.Header) error {
				a.log.Debug().Int("frame", i).Stringer("compression", h.Compression).Uint32("raw", h.RawLen).Msg("opened frame")
				if tc == nil {
					_, err := w.Write(payload)
					return err
				}
				text, err := tc.Unmarshal(payload)
				if err != nil {
					return fmt.Errorf("decode lines: %w", err)
				}
				var buf bytes.Buffer
				for _, line := range text {
					buf.WriteString(line)
					buf.WriteByte('\n')
				}
				_, err = w.Write(buf.Bytes())
				return err
			})
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&lines, "lines", false, "decode payloads sealed with seal --lines")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Verify frames and print their headers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FRAME\tCOMPRESSION\tCHECKSUM\tRAW\tBODY\tSIZE")
			err = a.eachFrame(in, func(i int, _ []byte, h frame.Header) error {
				_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n", i, h.Compression, h.Checksum, h.RawLen, h.BodyLen, h.Len())
				return err
			})
			if ferr := tw.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}
}
