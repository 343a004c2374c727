package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"bucket-manager/core/config"
	"bucket-manager/core/logger"
	"bucket-manager/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openClient builds the storage client for the configured bucket. It is a
// variable so tests can swap in a memory-backed client.
var openClient = func(cmd *cobra.Command) (storage.Client, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if bucket, _ := cmd.Flags().GetString("bucket"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	logg.Debug("Storage client ready", zap.String("bucket", client.Bucket()), zap.String("driver", cfg.Storage.Driver))
	return client, nil
}

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects of the bucket",
	Long:  `Lists a single page of at most --max-keys objects under the prefix. There is no continuation.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		maxKeys, _ := cmd.Flags().GetInt("max-keys")
		details, _ := cmd.Flags().GetBool("details")
		return runList(cmd.Context(), client, cmd.OutOrStdout(), prefix, maxKeys, details)
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <key>",
	Short: "Print an object's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		return runCat(cmd.Context(), client, cmd.OutOrStdout(), args[0])
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Print an object's metadata as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		return runStat(cmd.Context(), client, cmd.OutOrStdout(), args[0])
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <key>",
	Short: "Print whether an object exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		return runExists(cmd.Context(), client, cmd.OutOrStdout(), args[0])
	},
}

var putCmd = &cobra.Command{
	Use:   "put <key> <file|->",
	Short: "Upload a file (or stdin) as an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		contentType, _ := cmd.Flags().GetString("content-type")
		meta, _ := cmd.Flags().GetStringToString("meta")
		return runPut(cmd.Context(), client, cmd.InOrStdin(), args[0], args[1], contentType, meta)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete an object (missing keys are not an error)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		return client.DeleteObject(cmd.Context(), args[0])
	},
}

var presignCmd = &cobra.Command{
	Use:   "presign <key>",
	Short: "Print a presigned download URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		expires, _ := cmd.Flags().GetDuration("expires")
		if expires <= 0 {
			return storage.ErrInvalidExpiry
		}
		u, err := client.PresignedURL(cmd.Context(), args[0], expires)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lsCmd, catCmd, statCmd, existsCmd, putCmd, rmCmd, presignCmd)

	lsCmd.Flags().Int("max-keys", storage.DefaultMaxKeys, "Maximum number of keys to return")
	lsCmd.Flags().Bool("details", false, "Print size, last modified and etag")
	putCmd.Flags().String("content-type", "", "Content type (guessed from the file extension when empty)")
	putCmd.Flags().StringToString("meta", nil, "User metadata as key=value pairs")
	presignCmd.Flags().Duration("expires", storage.DefaultPresignExpiry, "URL lifetime")
}

func runList(ctx context.Context, client storage.Client, out io.Writer, prefix string, maxKeys int, details bool) error {
	if !details {
		keys, err := client.ListKeys(ctx, prefix, maxKeys)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	}

	objects, err := client.ListObjectDetails(ctx, prefix, maxKeys)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		modified := "-"
		if !obj.LastModified.IsZero() {
			modified = obj.LastModified.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(out, "%12d  %s  %s  %s\n", obj.Size, modified, obj.ETag, obj.Key)
	}
	return nil
}

func runCat(ctx context.Context, client storage.Client, out io.Writer, key string) error {
	data, err := client.ReadObject(ctx, key)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runStat(ctx context.Context, client storage.Client, out io.Writer, key string) error {
	meta, err := client.GetMetadata(ctx, key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runExists(ctx context.Context, client storage.Client, out io.Writer, key string) error {
	ok, err := client.Exists(ctx, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ok)
	return nil
}

func runPut(ctx context.Context, client storage.Client, stdin io.Reader, key, source, contentType string, meta map[string]string) error {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(source))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	return client.WriteObject(ctx, key, data, storage.WriteOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
}
