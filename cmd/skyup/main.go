// Command skyup uploads a file to a Skynet portal and prints the skylink.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	skynet "github.com/skyden/go-skynet"
	"github.com/skyden/go-skynet/skytypes"
)

func main() {
	var (
		portal        = flag.String("portal", skytypes.DefaultPortalURL, "portal URL to upload to")
		parallel      = flag.Int("parallel", skytypes.DefaultNumParallelUploads, "concurrent sessions used for large files")
		stagger       = flag.Int("stagger", skytypes.DefaultStaggerPercent, "stagger percent between session launches, -1 to disable")
		multiplier    = flag.Int("chunk-multiplier", 1, "multiplier applied to the base chunk size")
		largeFileSize = flag.String("large-file-size", "", "resumable-path threshold, e.g. 40MiB (default: portal chunk size)")
		dryRun        = flag.Bool("dry-run", false, "compute the skylink without persisting the data")
		filename      = flag.String("filename", "", "filename reported to the portal (default: file's base name)")
		verbose       = flag.BoolP("verbose", "v", false, "log transfer progress")
	)
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: skyup [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	clientOpts := []skytypes.Option{
		skynet.WithPortalURL(*portal),
		skynet.WithNumParallelUploads(*parallel),
		skynet.WithStaggerPercent(*stagger),
		skynet.WithChunkSizeMultiplier(*multiplier),
	}
	if *largeFileSize != "" {
		size, err := units.RAMInBytes(*largeFileSize)
		if err != nil {
			log.WithError(err).Fatal("invalid --large-file-size")
		}
		clientOpts = append(clientOpts, skynet.WithLargeFileSize(size))
	}

	client, err := skynet.New(clientOpts...)
	if err != nil {
		log.WithError(err).Fatal("configure client")
	}

	uploadOpts := []skytypes.UploadOption{
		skynet.WithDryRun(*dryRun),
		skynet.WithProgress(&logTracker{log: log}),
	}
	if *filename != "" {
		uploadOpts = append(uploadOpts, skynet.WithCustomFilename(*filename))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := client.UploadFile(ctx, path, uploadOpts...)
	if err != nil {
		log.WithError(err).Fatal("upload failed")
	}

	log.WithFields(logrus.Fields{
		"size":     units.BytesSize(float64(result.Size)),
		"duration": result.Duration.Round(10 * time.Millisecond),
	}).Debug("upload complete")
	fmt.Println(result.URI)
}

// logTracker logs transfer progress at debug level.
type logTracker struct {
	log *logrus.Logger
}

func (t *logTracker) Update(transferred, total int64) {
	t.log.WithFields(logrus.Fields{
		"transferred": units.BytesSize(float64(transferred)),
		"total":       units.BytesSize(float64(total)),
	}).Debug("transfer progress")
}

func (t *logTracker) Complete() {
	t.log.Debug("all sessions complete")
}

func (t *logTracker) Error(err error) {
	t.log.WithError(err).Debug("transfer aborted")
}
