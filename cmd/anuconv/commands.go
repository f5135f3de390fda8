package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/text/transform"

	"github.com/kumarlokesh/anu-converter/internal/config"
	"github.com/kumarlokesh/anu-converter/internal/converter"
	"github.com/kumarlokesh/anu-converter/internal/tables"
	"github.com/kumarlokesh/anu-converter/internal/validate"
)

// errMismatches makes check exit non-zero; the mismatches are already printed.
var errMismatches = errors.New("round trip mismatches found")

func (a *app) selectionFlags(fs *flag.FlagSet) (version, direction *string) {
	version = fs.String("version", a.cfg.Tables.Version, "Anu version (6 or 7)")
	direction = fs.String("direction", a.cfg.Tables.Direction, "Direction (a2u or u2a)")
	return version, direction
}

func (a *app) handleConvert(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	version, direction := a.selectionFlags(fs)
	swap := fs.Bool("swap", false, "Reverse the direction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sel, err := tables.ParseSelection(*version, *direction)
	if err != nil {
		return err
	}
	if *swap {
		sel = sel.Swap()
	}

	table, err := a.registry.Table(ctx, sel)
	if err != nil {
		return err
	}
	if table.Degraded {
		a.logger.Warn().Stringer("selection", sel).Msg("No usable mapping table; check that the mapping assets are loaded")
	}

	in := stdin
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(stdout)
	if _, err := io.Copy(out, transform.NewReader(in, table.Engine.Transformer())); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return out.Flush()
}

func (a *app) handleCheck(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	version := fs.String("version", a.cfg.Tables.Version, "Anu version (6 or 7)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := tables.ParseVersion(*version)
	if err != nil {
		return err
	}

	forwardSel := tables.Selection{Version: v, Direction: tables.AnuToUnicode}
	forward, err := a.registry.Table(ctx, forwardSel)
	if err != nil {
		return err
	}
	if forward.Degraded {
		return fmt.Errorf("%s table is not loaded", forwardSel)
	}

	backwardSel := forwardSel.Swap()
	backward, err := a.registry.Table(ctx, backwardSel)
	if err != nil {
		return err
	}
	backwardEngine := backward.Engine
	if backward.Degraded {
		// Without a reverse table, check that the forward table is invertible.
		fmt.Fprintf(stdout, "%s table is not loaded; checking against the inverse of %s\n", backwardSel, forwardSel)
		backwardEngine = converter.New(forward.Mapping.Invert())
	}

	res := validate.RoundTrip(forward.Engine, backwardEngine, validate.Samples(forward.Engine))
	for _, m := range res.Mismatches {
		fmt.Fprintf(stdout, "%q -> %q -> %q\n", m.Sample, m.Intermediate, m.Got)
	}
	fmt.Fprintf(stdout, "%s: %d checked, %d mismatches\n", v, res.Checked, len(res.Mismatches))

	if !res.OK() {
		return errMismatches
	}
	return nil
}

func (a *app) handleTables(ctx context.Context, stdout io.Writer) error {
	loaded, err := a.registry.Preload(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDIRECTION\tASSET\tRULES\tSTATUS")
	for _, t := range loaded {
		status := "ok"
		if t.Degraded {
			status = "degraded"
		}
		asset := t.Asset
		if asset == "" {
			asset = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.Selection.Version, t.Selection.Direction, asset, t.Engine.Len(), status)
	}
	return w.Flush()
}

func (a *app) handleConfig(stdout io.Writer) {
	fmt.Fprintln(stdout, "Current configuration:")
	fmt.Fprintf(stdout, "Server: %s\n", a.cfg.Server.Addr())
	fmt.Fprintf(stdout, "Storage: %s", a.cfg.Storage.Type)
	if a.cfg.Storage.Type == config.StorageFilesystem {
		fmt.Fprintf(stdout, " (%s)", a.cfg.Storage.Dir)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Default table: %s %s\n", a.cfg.Tables.Version, a.cfg.Tables.Direction)
	fmt.Fprintf(stdout, "Log: %s (%s)\n", a.cfg.Log.Level, a.cfg.Log.Format)
}
