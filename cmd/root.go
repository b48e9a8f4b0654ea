package cmd

import (
	"context"
	"os"

	globalConfig "ytmcp/config"
	domainCache "ytmcp/domains/cache"
	domainHealth "ytmcp/domains/health"
	domainMedia "ytmcp/domains/media"
	domainProtocol "ytmcp/domains/protocol"
	domainTranscript "ytmcp/domains/transcript"
	"ytmcp/infrastructure/assemblyai"
	"ytmcp/infrastructure/ytdlp"
	"ytmcp/pkg/filetoken"
	"ytmcp/pkg/inflight"
	"ytmcp/pkg/logsink"
	"ytmcp/pkg/utils"
	"ytmcp/usecase"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	downloadRegistry *inflight.Registry
	tokenService     *filetoken.Service

	cacheUsecase      domainCache.ICacheUsecase
	mediaUsecase      domainMedia.IMediaUsecase
	transcriptUsecase domainTranscript.ITranscriptUsecase
	healthUsecase     domainHealth.IHealthUsecase
	dispatcher        domainProtocol.IDispatcher
)

var rootCmd = &cobra.Command{
	Use:   "ytmcp",
	Short: "YouTube MCP server",
	Long: `MCP server that downloads, caches, and transcribes YouTube media.
Runs over stdio for MCP clients or over HTTP for everything else.`,
	// Bare invocation picks the transport from HTTP_MODE, defaulting to
	// stdio so MCP client configs can point at the binary directly.
	Run: func(cmd *cobra.Command, args []string) {
		transportFor(globalConfig.Global)(cmd, args)
	},
}

func transportFor(cfg *globalConfig.Config) func(*cobra.Command, []string) {
	if cfg.App.HTTPMode {
		return restServer
	}
	return mcpServer
}

func init() {
	utils.LoadConfig(".")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()
	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagCacheDir,
		"cache-dir", "",
		"",
		`cache directory for downloaded artifacts --cache-dir <string> | example: --cache-dir="storages/cache"`,
	)
}

var (
	flagPort     string
	flagDebug    bool
	flagCacheDir string
)

func initApp() {
	cfg, err := globalConfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}
	if flagCacheDir != "" {
		cfg.Paths.Cache = flagCacheDir
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := utils.CreateFolder(cfg.Paths.Storages, cfg.Paths.Cache, cfg.Paths.Temp); err != nil {
		logrus.Errorln(err)
	}

	ctx := context.Background()

	downloadRegistry = inflight.NewRegistry()
	tokenService = filetoken.NewService(cfg.Security.JWTSecret)

	extractor := ytdlp.NewDownloader(cfg.YTDLP.BinaryPath, logsink.Logrus{Tag: "YTDLP"})
	transcriber := assemblyai.NewClient(cfg.APIKeys.AssemblyAI, logsink.Logrus{Tag: "ASSEMBLYAI"})

	cacheUsecase = usecase.NewCacheService(cfg.Paths.Cache, cfg.Paths.Storages, cfg.Cache.TTL, cfg.Cache.SweepInterval)
	cacheUsecase.StartBackgroundCleanup(ctx)

	mediaUsecase = usecase.NewMediaService(cacheUsecase, extractor, tokenService, downloadRegistry, cfg.App.BaseURL)
	transcriptUsecase = usecase.NewTranscriptService(mediaUsecase, cacheUsecase, transcriberAdapter{transcriber}, tokenService, downloadRegistry, cfg.APIKeys.AssemblyAI, cfg.App.BaseURL)
	healthUsecase = usecase.NewHealthService(cacheUsecase, downloadRegistry, cfg.App.BaseURL)
	dispatcher = usecase.NewDispatcherService(mediaUsecase, transcriptUsecase, cacheUsecase)
}

// transcriberAdapter narrows the provider client to the per-call key shape
// the transcript service expects.
type transcriberAdapter struct {
	client *assemblyai.Client
}

func (a transcriberAdapter) Transcribe(ctx context.Context, apiKey, audioPath string) (assemblyai.Transcript, error) {
	return a.client.TranscribeWithKey(ctx, apiKey, audioPath)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
