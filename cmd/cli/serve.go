package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CivicPortal/internal/adapter"
	_ "CivicPortal/internal/adapter/openai"
	_ "CivicPortal/internal/adapter/relay"
	"CivicPortal/internal/api"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"
	"CivicPortal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return serve(cmd.Context(), a)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server.port")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	completion, err := adapter.NewCompletionClient(&a.cfg.Chat, a.logger)
	if err != nil {
		return err
	}
	files, err := storage.NewLocalStorage(a.cfg.Storage.PresentationsDir, a.cfg.Storage.PublicPrefix, a.logger)
	if err != nil {
		return err
	}
	photoFiles, err := storage.NewLocalStorage(a.cfg.Storage.PhotosDir, a.cfg.Storage.PhotosPublicPrefix, a.logger)
	if err != nil {
		return err
	}

	imports := repository.NewImportRepository(a.db)
	tmpl := service.NewPromptTemplate(a.cfg.Prompt)

	gin.SetMode(a.cfg.Server.Mode)
	router := api.NewRouter(api.Dependencies{
		Config:        a.cfg,
		Location:      a.loc,
		Store:         a.store,
		Chat:          service.NewChatService(a.store, completion, tmpl, a.loc, time.Now, a.logger),
		Importer:      service.NewCSVImporter(a.store, imports, a.loc, a.logger),
		Imports:       imports,
		Presentations: service.NewPresentationService(repository.NewPresentationRepository(a.db), files, a.cfg.Storage.MaxUploadMB, a.logger),
		Photos:        service.NewPhotoService(repository.NewPhotoRepository(a.db), photoFiles, time.Now, a.logger),
		Files:         files,
		PhotoFiles:    photoFiles,
		Now:           time.Now,
		Logger:        a.logger,
	})
	a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("服务启动成功，端口：%d", a.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("收到退出信号，正在关闭服务…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
