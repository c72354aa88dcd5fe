package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"SignaturePad/internal/board"
	"SignaturePad/internal/config"
	"SignaturePad/internal/logging"
	"SignaturePad/internal/net"
	"SignaturePad/internal/speech"
	"SignaturePad/internal/ui"
)

const browseTimeout = 3 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "signaturepad:", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if arg := flag.Arg(0); net.IsLink(arg) {
		runViewer(arg, logger)
		return
	}
	if err := runHost(cfg, logger); err != nil {
		logger.Error("pad exited", "err", err)
		os.Exit(1)
	}
}

func runHost(cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting pad")
	b, err := board.New(board.Options{
		Brush:  cfg.BrushSettings(),
		Logger: logger.With("component", "board"),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var shareLink string
	if cfg.Mirror.Enabled {
		shareLink = startMirror(ctx, cfg.Mirror, b, logger.With("component", "mirror"))
	}

	ui.RunApp(b, ui.Options{
		SaveDir:    cfg.SaveDir,
		Recognizer: speech.NewCommandRecognizer(cfg.Speech.Command, logger.With("component", "speech")),
		SpeechOptions: speech.Options{
			Lang:            cfg.Speech.Lang,
			MaxAlternatives: 1,
		},
		SpeechTimeout: cfg.Speech.Timeout.Duration,
		ShareLink:     shareLink,
		Logger:        logger,
	})

	cancel()
	b.Wait()
	return nil
}

// startMirror serves the board to viewers and returns the link to share.
func startMirror(ctx context.Context, cfg config.Mirror, b *board.Board, logger *slog.Logger) string {
	mirror := net.NewMirror(logger)

	// Frames are coalesced: a burst of changes publishes the latest image once.
	changed := make(chan struct{}, 1)
	b.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				if err := mirror.Publish(b.Image()); err != nil {
					logger.Warn("publish failed", "err", err)
				}
			}
		}
	}()
	changed <- struct{}{}

	go func() {
		if err := mirror.ListenAndServe(ctx, cfg.Port); err != nil {
			logger.Error("mirror stopped", "err", err)
		}
	}()

	if cfg.Advertise {
		server, err := net.Advertise(cfg.Port)
		if err != nil {
			logger.Warn("mDNS advertise failed", "err", err)
		} else {
			go func() {
				<-ctx.Done()
				server.Shutdown()
			}()
		}
	}
	return net.ShareLink(cfg.Port)
}

func runViewer(link string, logger *slog.Logger) {
	logger.Info("starting viewer", "link", link)
	addr, err := net.ParseLink(link)
	if err != nil {
		fmt.Fprintln(os.Stderr, "signaturepad:", err)
		os.Exit(1)
	}
	if addr == "" {
		if addr, err = net.Browse(browseTimeout); err != nil {
			fmt.Fprintln(os.Stderr, "signaturepad:", err)
			os.Exit(1)
		}
		logger.Info("found pad", "addr", addr)
	}

	subscribe := func(ctx context.Context, fn func(img image.Image)) error {
		return net.Subscribe(ctx, addr, fn)
	}
	ui.RunViewer("Signature Pad - "+addr, subscribe, logger)
}
