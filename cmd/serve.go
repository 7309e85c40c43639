package cmd

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/cachefs"
	"github.com/golang/groupcache"
	"github.com/spf13/cobra"

	"github.com/Aaronwn/kele/theme"
	"github.com/Aaronwn/kele/virtual"
	"github.com/Aaronwn/kele/web"
)

var (
	serveAddr    string
	serveNoCache bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site for development, rendering markdown on the fly",
	Long: `Serve renders pages directly from the content directory on each request,
so edits show up on refresh without a rebuild. Rendered pages are held in
a short-lived cache to keep browsing snappy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := os.DirFS(rootDir)
		reg, err := theme.Load(root, siteCfg.TemplateDir)
		if err != nil {
			return err
		}
		vfs, err := virtual.New(root, siteCfg, reg, logger)
		if err != nil {
			return err
		}

		logger.Info("development server starting", "addr", serveAddr, "root", rootDir)
		return runServer(serveAddr, web.Stack(fsysOrCached(vfs, serveNoCache), logger))
	},
}

// fsysOrCached wraps the virtual FS in a groupcache-backed cache unless
// caching is disabled.
func fsysOrCached(vfs *virtual.FS, noCache bool) fs.FS {
	if noCache {
		return vfs
	}
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })
	return cachefs.New(vfs, &cachefs.Config{
		GroupName:   "kele",
		SizeInBytes: 32 * 1024 * 1024,
		Duration:    2 * time.Second,
	})
}

// runServer runs an HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully.
func runServer(addr string, handler http.Handler) error {
	srv := http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("goodbye")
	return nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "address to listen on")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "render every request without caching")
	rootCmd.AddCommand(serveCmd)
}
