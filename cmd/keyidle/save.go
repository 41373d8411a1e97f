package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyidle/internal/config"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/runner"
	"github.com/verte-zerg/keyidle/internal/save"
	"github.com/verte-zerg/keyidle/internal/store"
)

var (
	saveSlot    string
	saveOut     string
	saveHistory bool
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Manage save slots",
	}
	cmd.PersistentFlags().StringVar(&saveSlot, "slot", runner.DefaultSlot, "save slot")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE:  runSaveListCmd,
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a slot as compressed JSON",
		Args:  cobra.NoArgs,
		RunE:  runSaveExportCmd,
	}
	exportCmd.Flags().StringVar(&saveOut, "out", "", "output file (default: data dir exports/<slot>.json.zst)")
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a save file into a slot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSaveImportCmd,
	}
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a slot",
		Args:  cobra.NoArgs,
		RunE:  runSaveResetCmd,
	}
	resetCmd.Flags().BoolVar(&saveHistory, "history", false, "also delete the slot's challenge history")

	cmd.AddCommand(listCmd, exportCmd, importCmd, resetCmd)
	return cmd
}

func withStore(fn func(ctx context.Context, st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(context.Background(), st)
}

func runSaveListCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(ctx context.Context, st *store.Store) error {
		slots, err := st.ListSlots(ctx)
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		if err := writeSlots(cmd.OutOrStdout(), slots); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func writeSlots(w io.Writer, slots []model.SaveSlot) error {
	if len(slots) == 0 {
		_, err := fmt.Fprintln(w, "No saves found.")
		return err
	}
	nameWidth := runewidth.StringWidth("Slot")
	for _, s := range slots {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
	}
	if _, err := fmt.Fprintf(w, "%s  %7s  %8s  %s\n", runewidth.FillRight("Slot", nameWidth), "Version", "Bytes", "Updated"); err != nil {
		return err
	}
	for _, s := range slots {
		if _, err := fmt.Fprintf(w, "%s  %7d  %8d  %s\n",
			runewidth.FillRight(s.Name, nameWidth), s.Version, s.Size, s.UpdatedAt.Local().Format(time.DateTime)); err != nil {
			return err
		}
	}
	return nil
}

func runSaveExportCmd(cmd *cobra.Command, _ []string) error {
	out := saveOut
	if out == "" {
		out = config.DefaultExportPath(saveSlot)
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		data, ok, err := st.GetSave(ctx, saveSlot)
		if err != nil {
			return fmt.Errorf("failed to read save %q: %w", saveSlot, err)
		}
		if !ok {
			return fmt.Errorf("save slot %q is empty", saveSlot)
		}
		snap, err := save.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to load save %q: %w", saveSlot, err)
		}
		if err := save.WriteFile(out, snap); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", saveSlot, out)
		return err
	})
}

func runSaveImportCmd(cmd *cobra.Command, args []string) error {
	snap, err := save.ReadFile(args[0])
	if err != nil {
		return err
	}
	data, err := save.Encode(snap)
	if err != nil {
		return err
	}
	packed, err := save.Compress(data)
	if err != nil {
		return err
	}
	return withStore(func(ctx context.Context, st *store.Store) error {
		if err := st.PutSave(ctx, saveSlot, save.Version, packed, time.Now()); err != nil {
			return fmt.Errorf("failed to write save %q: %w", saveSlot, err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", args[0], saveSlot)
		return err
	})
}

func runSaveResetCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(ctx context.Context, st *store.Store) error {
		if err := st.DeleteSave(ctx, saveSlot); err != nil {
			return fmt.Errorf("failed to delete save %q: %w", saveSlot, err)
		}
		if saveHistory {
			if err := st.DeleteChallengeResults(ctx, saveSlot); err != nil {
				return fmt.Errorf("failed to delete history of %q: %w", saveSlot, err)
			}
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", saveSlot)
		return err
	})
}
