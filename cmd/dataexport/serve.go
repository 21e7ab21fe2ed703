package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/process"
	"github.com/opdss/dataexporter/server/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve POST /export/:format downloads over http",
	RunE:  cmdServe,
}

func init() {
	fs := serveCmd.Flags()
	fs.String("server.address", "0.0.0.0:8989", "监听地址")
	fs.String("server.endpoint", "http://localhost:8989", "访问地址")
	fs.String("server.mode", gin.ReleaseMode, "gin运行模式[debug|release|test]")
	fs.Duration("server.read-timeout", 30*time.Second, "读取请求头超时")
	fs.Duration("server.shutdown-timeout", 5*time.Second, "关闭时等待进行中导出的时间")
}

func cmdServe(cmd *cobra.Command, args []string) error {
	vip, err := process.Viper(cmd)
	if err != nil {
		return err
	}
	gin.SetMode(vip.GetString("server.mode"))

	srv := http.NewServer(nil, zap.L().Named("http"), http.Config{
		Address:         vip.GetString("server.address"),
		Endpoint:        vip.GetString("server.endpoint"),
		ReadTimeout:     vip.GetDuration("server.read-timeout"),
		ShutdownTimeout: vip.GetDuration("server.shutdown-timeout"),
	})
	return srv.Start(cmd.Context())
}
