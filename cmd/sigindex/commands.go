package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/viant/sigindex/config"
	"github.com/viant/sigindex/engine"
	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/index/linear"
	"github.com/viant/sigindex/internal/logging"
	"github.com/viant/sigindex/signature"
	"github.com/viant/sigindex/storage"
)

type app struct {
	configPath string
	dbPath     string
	prefix     string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "sigindex",
		Short:         "Linear signature index backed by SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML config")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&a.prefix, "prefix", "", "storage prefix of the index (overrides config)")

	root.AddCommand(a.importCmd(), a.lsCmd(), a.exportCmd(), a.searchCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.prefix != "" {
		cfg.Prefix = a.prefix
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

func (a *app) openStorage() (*storage.SQLite, *sql.DB, error) {
	db, err := engine.Open(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", a.cfg.DBPath, err)
	}
	store, err := storage.NewSQLite(db, storage.WithLogger(a.logger))
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

func (a *app) manifestPath() string { return path.Join(a.cfg.Prefix, linear.ManifestName) }

func (a *app) loadIndex() (*linear.Index, func(), error) {
	store, db, err := a.openStorage()
	if err != nil {
		return nil, nil, err
	}
	idx, err := linear.Load(store, a.manifestPath())
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return idx, func() { _ = db.Close() }, nil
}

func loadFiles(paths []string) ([]*signature.Signature, error) {
	var out []*signature.Signature
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		sigs, err := signature.Load(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, sigs...)
	}
	return out, nil
}

func (a *app) importCmd() *cobra.Command {
	var appendMode bool
	cmd := &cobra.Command{
		Use:   "import <signature.json>...",
		Short: "Import signature files into the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sigs, err := loadFiles(args)
			if err != nil {
				return err
			}
			store, db, err := a.openStorage()
			if err != nil {
				return err
			}
			defer db.Close()

			idx := linear.NewBuilder().Build()
			if appendMode {
				existing, err := linear.Load(store, a.manifestPath())
				switch {
				case err == nil:
					idx = existing
				case errors.Is(err, storage.ErrNotFound):
					a.logger.Warn("no existing index, starting empty", "manifest", a.manifestPath())
				default:
					return fmt.Errorf("append to %s: %w", a.manifestPath(), err)
				}
			}
			for _, sig := range sigs {
				entry, err := index.NewSigStoreBuilder().Data(sig).Filename(sig.Filename).Name(sig.Name).Build()
				if err != nil {
					return err
				}
				idx.Insert(entry)
			}
			manifest, err := idx.Save(store, a.cfg.Prefix)
			if err != nil {
				return err
			}
			a.logger.Info("index saved", "manifest", manifest, "entries", idx.Len(), "imported", len(sigs))
			fmt.Fprintln(cmd.OutOrStdout(), manifest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendMode, "append", false, "append to the existing index instead of replacing it")
	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List indexed signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, closeFn, err := a.loadIndex()
			if err != nil {
				return err
			}
			defer closeFn()
			sigs, err := idx.Signatures()
			if err != nil {
				return err
			}
			for i, sig := range sigs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", i, sig.Digest().Encoded()[:12], sig.DisplayName(), sig.Filename)
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every indexed signature to stdout as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, closeFn, err := a.loadIndex()
			if err != nil {
				return err
			}
			defer closeFn()
			sigs, err := idx.Signatures()
			if err != nil {
				return err
			}
			return signature.Save(cmd.OutOrStdout(), sigs)
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var (
		threshold   float64
		containment bool
		inSQL       bool
	)
	cmd := &cobra.Command{
		Use:   "search <query.json>",
		Short: "Scan the index for signatures similar to the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := loadFiles(args)
			if err != nil {
				return err
			}
			if len(queries) == 0 {
				return fmt.Errorf("%s: no signatures", args[0])
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Threshold
			}
			store, db, err := a.openStorage()
			if err != nil {
				return err
			}
			defer db.Close()
			idx, err := linear.Load(store, a.manifestPath())
			if err != nil {
				return err
			}

			var matches []index.Match
			if inSQL {
				matches, err = searchSQL(cmd.Context(), db, idx, queries[0], threshold, containment)
			} else {
				matches, err = index.Search(idx, queries[0], threshold, containment)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("search done", "query", queries[0].DisplayName(), "candidates", idx.Len(), "matches", len(matches), "sql", inSQL)
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%.3f\t%s\t%s\n", m.Score, m.Signature.DisplayName(), m.Signature.Filename)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum score (defaults to config threshold)")
	cmd.Flags().BoolVar(&containment, "containment", false, "score by containment of the query")
	cmd.Flags().BoolVar(&inSQL, "sql", false, "score stored payloads inside SQLite and decode only the matches")
	return cmd
}

