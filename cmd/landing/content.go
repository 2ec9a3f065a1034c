package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/landing"
	"github.com/eringen/landing/content"
	"github.com/eringen/landing/editor"
	"github.com/eringen/landing/kv"
)

func contentCommand() *cobra.Command {
	var storeAddr string
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Export, import or reset the stored page content",
	}
	cmd.PersistentFlags().StringVar(&storeAddr, "store", "", "store address (overrides LANDING_STORE)")

	open := func() (kv.Store, error) {
		if storeAddr != "" {
			return kv.Open(storeAddr)
		}
		cfg, err := landing.LoadConfig()
		if err != nil {
			return nil, err
		}
		return kv.Open(cfg.StorePath)
	}

	cmd.AddCommand(exportCommand(open), importCommand(open), resetCommand(open))
	return cmd
}

func exportCommand(open func() (kv.Store, error)) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the current content (the defaults when nothing is stored)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			state, _ := editor.NewPersister(store, nil).Load(cmd.Context())
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(state)
			}
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: json or yaml")
	return cmd
}

func importCommand(open func() (kv.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored content with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			state, err := parseDocument(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := saveContent(cmd.Context(), store, state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d features, %d services, %d gallery items\n",
				len(state.Features), len(state.Services), len(state.Gallery.Items))
			return nil
		},
	}
}

func resetCommand(open func() (kv.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored content so the defaults are served",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(cmd.Context(), editor.ContentKey)
		},
	}
}

// parseDocument reads a whole content document. JSON is valid YAML, so one
// decoder serves both.
func parseDocument(data []byte) (content.State, error) {
	var doc content.State
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return content.State{}, err
	}
	state := content.Default()
	if err := content.Import(doc)(&state); err != nil {
		return content.State{}, err
	}
	return state, nil
}

func saveContent(ctx context.Context, store kv.Store, state content.State) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return store.Set(ctx, editor.ContentKey, b)
}
