package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"social-dl/internal/media"
	"social-dl/internal/server"
	"social-dl/internal/service"
)

var (
	resolveFormat   string
	resolveQuality  string
	resolveMetadata bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve a URL once and print the JSON response",
	Long: `Resolve runs the same provider chain as the HTTP API for a single URL
and prints the response body the /download (or /metadata) endpoint would return.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}

		req := media.NewRequest(args[0], resolveQuality, resolveFormat)
		var body any
		if resolveMetadata {
			meta, err := a.svc.Metadata(cmd.Context(), req)
			if err != nil {
				return printFailure(err)
			}
			body = server.MetadataResponse{Success: true, Metadata: *meta}
		} else {
			d, err := a.svc.Download(cmd.Context(), req)
			if err != nil {
				return printFailure(err)
			}
			body = server.DownloadResponse{Success: true, ResolvedDownload: d}
		}
		return printJSON(body)
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", media.DefaultFormat, "mp4 or mp3")
	resolveCmd.Flags().StringVarP(&resolveQuality, "quality", "q", media.DefaultQuality, "best or worst")
	resolveCmd.Flags().BoolVarP(&resolveMetadata, "metadata", "m", false, "print metadata instead of a download link")
}

func printFailure(err error) error {
	status, msg := service.StatusOf(err)
	if perr := printJSON(server.ErrorResponse{Error: msg}); perr != nil {
		return perr
	}
	return fmt.Errorf("status %d: %w", status, err)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
