package cli

import (
	"errors"
	"fmt"

	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/services/export"
	"github.com/meghashyamc/sitesearch/services/index"
	"github.com/spf13/cobra"
)

type buildFlags struct {
	baseURL       string
	basePath      string
	extension     string
	outputPath    string
	namespace     string
	keepStopWords bool
	exclude       []string
}

func newBuildCmd() *cobra.Command {
	flags := buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [directory]",
		Short: "Index every page under a directory and write the search artifact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "prefix for document URLs (default from config)")
	cmd.Flags().StringVar(&flags.basePath, "base-path", "", "path prefix stripped from file paths (default: the directory)")
	cmd.Flags().StringVar(&flags.extension, "ext", "", "extension of the files to index (default from config)")
	cmd.Flags().StringVarP(&flags.outputPath, "out", "o", "", "artifact output path (default from config)")
	cmd.Flags().StringVar(&flags.namespace, "namespace", "", "JavaScript object the artifact assigns to (default from config)")
	cmd.Flags().BoolVar(&flags.keepStopWords, "keep-stop-words", false, "index stop words instead of dropping them")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "folders to skip")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, flags buildFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.GetLogLevel())

	rootPath := cfg.GetRootPath()
	if len(args) == 1 {
		rootPath = args[0]
	}
	if rootPath == "" {
		return errors.New("no directory given and no indexer.root_path configured")
	}

	options := index.Options{
		RootPath:       rootPath,
		BasePath:       flags.basePath,
		BaseURL:        firstNonEmpty(flags.baseURL, cfg.GetBaseURL()),
		Extension:      firstNonEmpty(flags.extension, cfg.GetFileExtension()),
		ExcludeFolders: cfg.GetExcludeFolders(),
	}
	if len(flags.exclude) > 0 {
		options.ExcludeFolders = flags.exclude
	}

	tokenizerOptions := index.DefaultTokenizerOptions()
	tokenizerOptions.FilterStopWords = cfg.GetFilterStopWords() && !flags.keepStopWords

	exporter := export.New(log, firstNonEmpty(flags.outputPath, cfg.GetOutputPath()), firstNonEmpty(flags.namespace, cfg.GetNamespace()))
	service := index.New(log, index.NewTokenizer(tokenizerOptions), exporter, nil, nil)

	record, err := service.Run(cmd.Context(), options)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents, %d terms into %s\n", record.Documents, record.Terms, record.OutputPath)

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
