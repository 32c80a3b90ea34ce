package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kerbaras/storysite/pkg/services"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated site locally",
		Long: "Serve the output directory over HTTP. With --watch the site is rebuilt\n" +
			"whenever a story or template changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			if !watch {
				if err := runBuild(w, opts); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: newPreviewHandler(opts.cfg.Path(opts.cfg.OutputDir), opts.verbose, opts.logger),
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				fmt.Fprintf(w, "🌐 Serving %s on http://%s\n", opts.cfg.OutputDir, displayAddr(addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if watch {
				g.Go(func() error {
					return runWatcher(ctx, w, opts, services.DefaultDebounce)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8080", "Listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild on changes while serving")
	return cmd
}

// newPreviewHandler serves dir as a static site.
func newPreviewHandler(dir string, verbose bool, logger *zap.Logger) http.Handler {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	})
	r.StaticFS("/", gin.Dir(dir, false))
	return r
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
