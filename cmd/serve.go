package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"spendwatch/config"
	"spendwatch/database"
	"spendwatch/middleware"
	"spendwatch/router"
	"spendwatch/service"

	"github.com/spf13/cobra"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务（默认命令）",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagPort, "port", "p", "", "监听端口，如: 8080 或 :8080")
	// 不带子命令时同样支持 -p
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 命令行参数覆盖端口配置
	if flagPort != "" {
		if !strings.HasPrefix(flagPort, ":") {
			flagPort = ":" + flagPort
		}
		cfg.Server.Port = flagPort
		log.Printf("命令行指定端口: %s", flagPort)
	}
	config.PrintConfig()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	middleware.InitJWT(cfg)

	sender := service.NewEmailSender(&cfg.Email)
	r := router.SetupRouter(cfg, db, router.NewServices(cfg, db, sender))

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("==========================================")
		log.Printf("  预算提醒记账系统已启动")
		log.Printf("==========================================")
		log.Printf("  API 地址: http://localhost%s/api/v1", cfg.Server.Port)
		log.Printf("  API 文档: http://localhost%s/swagger/index.html", cfg.Server.Port)
		log.Printf("==========================================")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
