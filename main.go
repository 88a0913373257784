package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"SignaturePad/internal/config"
	padnet "SignaturePad/internal/net"
	"SignaturePad/internal/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/gogpu/gg"
	"github.com/spf13/pflag"
)

const browseTimeout = 3 * time.Second

func main() {
	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))

	switch {
	case len(args) > 0 && args[0] == "browse":
		runBrowse()
	case len(args) > 0 && padnet.IsLink(args[0]):
		runViewer(cfg, args[0])
	default:
		runHost(cfg)
	}
}

func runHost(cfg *config.Config) {
	slog.Info("starting pad", "width", cfg.Width, "height", cfg.Height, "mirror", cfg.Mirror)
	a := app.New()
	w, err := ui.NewWindow(a, "Signature Pad", cfg, false)
	if err != nil {
		slog.Error("could not create pad window", "error", err)
		os.Exit(1)
	}

	if cfg.Mirror {
		stop := startMirror(cfg, w)
		defer stop()
	}
	w.ShowAndRun()
}

// startMirror serves the pad to viewers and returns a func that shuts it down.
func startMirror(cfg *config.Config, w *ui.Window) func() {
	hub := padnet.NewHub(w.Pad.SyncState)
	w.Publish = hub.Publish

	mux := http.NewServeMux()
	mux.Handle(padnet.MirrorPath, hub)
	srv := &http.Server{Addr: cfg.Address(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		slog.Info("mirror listening", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mirror server failed", "error", err)
			w.SetStatus(fmt.Sprintf("Mirror failed: %v", err))
		}
	}()

	link := padnet.ShareLink(padnet.OutgoingIP(), cfg.Port)
	slog.Info("share link", "link", link)
	w.Toolbar.SetStatus("Mirror: " + link)

	var closers []func()
	if cfg.MDNS {
		server, err := padnet.Advertise(cfg.Port)
		if err != nil {
			slog.Warn("mDNS advertise failed", "error", err)
		} else {
			closers = append(closers, func() {
				if err := server.Shutdown(); err != nil {
					slog.Warn("mDNS shutdown", "error", err)
				}
			})
		}
	}

	return func() {
		for _, c := range closers {
			c()
		}
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("mirror shutdown", "error", err)
		}
	}
}

func runViewer(cfg *config.Config, link string) {
	url, err := padnet.LinkToURL(link)
	if err != nil {
		slog.Error("bad link", "error", err)
		os.Exit(2)
	}
	slog.Info("starting mirror viewer", "url", url)

	a := app.New()
	w, err := ui.NewWindow(a, "Signature Pad (mirror)", cfg, true)
	if err != nil {
		slog.Error("could not create viewer window", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go follow(ctx, w, url)
	w.ShowAndRun()
}

// follow applies the hub's frames to the viewer window until ctx ends or
// the host goes away.
func follow(ctx context.Context, w *ui.Window, url string) {
	v, err := padnet.Dial(ctx, url)
	if err != nil {
		slog.Error("connection failed", "error", err)
		w.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer v.Close()
	w.SetStatus("Connected as " + v.LocalAddr())

	f := padnet.NewFollower(w.Pad)
	err = v.Run(ctx, func(fr padnet.Frame) error {
		var herr error
		fyne.DoAndWait(func() {
			herr = f.Handle(fr)
			w.Toolbar.Sync()
		})
		return herr
	})
	if err != nil && ctx.Err() == nil {
		slog.Info("mirror closed", "error", err)
		w.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
	}
}

func runBrowse() {
	found := 0
	err := padnet.Browse(browseTimeout, func(addr string) {
		found++
		fmt.Println(padnet.LinkScheme + addr)
	})
	if err != nil {
		slog.Error("browse failed", "error", err)
		os.Exit(1)
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "no signature pads found")
	}
}
