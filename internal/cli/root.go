package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/downloader"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/version"
	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

var (
	output  string
	quality string
	format  string
	info    bool
)

var rootCmd = &cobra.Command{
	Use:     "vidgrab [url]",
	Short:   "Download videos from YouTube, TikTok, Instagram and other platforms",
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		if err := runDownload(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	rootCmd.Flags().StringVarP(&quality, "quality", "q", "", "preferred quality (best, audio, 720p, ...)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "container extension (mp4, mp3, ...)")
	rootCmd.Flags().BoolVar(&info, "info", false, "show video info without downloading")

	rootCmd.AddCommand(serveCmd, batchCmd, qrCmd, configCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// newToolchain builds the driver and probe shared by all commands.
func newToolchain(cfg config.Config) (ytdlp.Driver, *ytdlp.Probe) {
	driver := ytdlp.New(cfg.YtdlpPath)
	probe := ytdlp.NewProbe(driver, time.Duration(cfg.ProbeTTLSeconds)*time.Second)
	return driver, probe
}

func runDownload(url string) error {
	cfg := config.LoadOrDefault()
	if !config.Exists() {
		fmt.Fprintln(os.Stderr, color.YellowString("No config file found. Run 'vidgrab config set' to create one."))
	}

	driver, probe := newToolchain(cfg)
	svc := extractor.New(driver, probe)

	meta, err := runExtractWithSpinner(svc, url)
	if err != nil {
		return err
	}

	if info {
		printMetadata(meta)
		return nil
	}

	q := quality
	if q == "" {
		q = cfg.Quality
	}
	f := format
	if f == "" {
		f = cfg.Format
	}
	dir := output
	if dir == "" {
		dir = cfg.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	dest := filepath.Join(dir, sanitizeFilename(meta.Title)+"."+f)
	selector := downloader.FormatSelector(q)

	ctx, cancel := context.WithTimeout(context.Background(), downloader.DefaultTimeout)
	defer cancel()

	fmt.Printf("Downloading %s -> %s\n", color.CyanString(meta.Title), dest)
	if err := driver.Materialize(ctx, url, selector, dest); err != nil {
		return err
	}
	fmt.Println(color.GreenString("Done."))
	return nil
}

func printMetadata(meta *extractor.VideoMetadata) {
	bold := color.New(color.Bold)
	bold.Printf("%s\n", meta.Title)
	fmt.Printf("  Platform: %s\n", meta.Platform)
	if meta.Duration > 0 {
		fmt.Printf("  Duration: %s\n", formatDuration(time.Duration(meta.Duration)*time.Second))
	}
	if meta.Thumbnail != "" {
		fmt.Printf("  Thumbnail: %s\n", meta.Thumbnail)
	}
	fmt.Println("  Qualities:")
	for _, q := range meta.AvailableQualities {
		fmt.Printf("    %-7s %-10s %s\n", q.Quality, q.FormatID, q.Ext)
	}
}

// sanitizeFilename strips characters that are unsafe in file names
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "video"
	}
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(name)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m >= 60 {
		h := m / 60
		m = m % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
