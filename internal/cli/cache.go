package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marlinshell/marlin/internal/hir"
	"github.com/marlinshell/marlin/internal/store"
)

// DefaultCachePath is used when neither --db nor the config file name a
// cache location.
const DefaultCachePath = "marlin.db"

// CacheOptions holds flags for the cache commands.
type CacheOptions struct {
	*RootOptions
	Database string // block cache path
}

// CachePutResult is the JSON payload for a successful cache put.
type CachePutResult struct {
	Fingerprint string `json:"fingerprint"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the content-addressed block cache",
		Long: `Store and retrieve encoded pipeline trees by canonical fingerprint.

The cache is a SQLite database. Blocks are keyed by the fingerprint of
their definition names, so storing the same tree twice is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "block cache path (defaults to config, then "+DefaultCachePath+")")

	cmd.AddCommand(newCachePutCommand(opts))
	cmd.AddCommand(newCacheGetCommand(opts))
	cmd.AddCommand(newCacheListCommand(opts))

	return cmd
}

func newCachePutCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "put <tree.json>",
		Short:         "Store a pipeline tree in the cache",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCachePut(opts, args[0], cmd)
		},
	}
}

func newCacheGetCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <fingerprint>",
		Short:         "Retrieve a pipeline tree by fingerprint",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheGet(opts, args[0], cmd)
		},
	}
}

func newCacheListCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List cached pipeline trees",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	}
}

func runCachePut(opts *CacheOptions, treePath string, cmd *cobra.Command) error {
	formatter := newCacheFormatter(opts, cmd)

	block, err := readTree(treePath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	st, err := openCache(opts, formatter)
	if err != nil {
		return err
	}
	defer closeCache(st)

	fp, err := st.Put(cmd.Context(), block)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("storing tree: %v", err), nil)
		return WrapExitError(ExitCommandError, "storing tree", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(CachePutResult{Fingerprint: fp})
	}

	fmt.Fprintf(formatter.Writer, "✓ Stored %s\n", fp)
	return nil
}

func runCacheGet(opts *CacheOptions, fingerprint string, cmd *cobra.Command) error {
	formatter := newCacheFormatter(opts, cmd)

	st, err := openCache(opts, formatter)
	if err != nil {
		return err
	}
	defer closeCache(st)

	block, err := st.Get(cmd.Context(), fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeCacheMiss, fmt.Sprintf("no block with fingerprint %s", fingerprint), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("no block with fingerprint %s", fingerprint))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("retrieving tree: %v", err), nil)
		return WrapExitError(ExitCommandError, "retrieving tree", err)
	}

	// Emit the encoded tree itself so the output can feed straight back
	// into render or analyze.
	if formatter.Format == "json" {
		return formatter.Success(block)
	}

	data, err := hir.EncodeBlock(block)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("encoding tree: %v", err), nil)
		return WrapExitError(ExitCommandError, "encoding tree", err)
	}
	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}

func runCacheList(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := newCacheFormatter(opts, cmd)

	st, err := openCache(opts, formatter)
	if err != nil {
		return err
	}
	defer closeCache(st)

	entries, err := st.List(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("listing cache: %v", err), nil)
		return WrapExitError(ExitCommandError, "listing cache", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s  %d bytes\n", e.Fingerprint, e.Size)
	}
	return nil
}

func newCacheFormatter(opts *CacheOptions, cmd *cobra.Command) *OutputFormatter {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// cachePath resolves the database path: flag, then config, then default.
func cachePath(opts *CacheOptions) string {
	if opts.Database != "" {
		return opts.Database
	}
	if opts.Config.Cache != "" {
		return opts.Config.Cache
	}
	return DefaultCachePath
}

func openCache(opts *CacheOptions, formatter *OutputFormatter) (*store.Store, error) {
	path := cachePath(opts)
	formatter.VerboseLog("Opening cache %s", path)

	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("opening cache: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "opening cache", err)
	}
	return st, nil
}

func closeCache(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing cache", "error", err)
	}
}
