package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/ollama/ollama/api"
	"go.mongodb.org/mongo-driver/v2/mongo"
	temporalClient "go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/vishal-24-1/Inzighted-G-sub000/appconfig"
	"github.com/vishal-24-1/Inzighted-G-sub000/cache"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/retrieval"
	"github.com/vishal-24-1/Inzighted-G-sub000/services"
	"github.com/vishal-24-1/Inzighted-G-sub000/tenant"
	"github.com/vishal-24-1/Inzighted-G-sub000/tutor"
	"github.com/vishal-24-1/Inzighted-G-sub000/workers"
	"github.com/vishal-24-1/Inzighted-G-sub000/workers/activities"
)

func main() {
	dotenv.LoadEnv()

	ccfg := &appconfig.AppConfig{}
	if err := config.LoadConfig("config.ini", ccfg); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	deriver, err := tenant.ProvideDeriver()
	if err != nil {
		logger.Fatal("Failed to build tenant deriver", zap.Error(err))
	}

	claude := llm.ProvideAnthropicClient()

	ollamaClient, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create Ollama client", zap.Error(err))
	}

	mongoClient, ok := odm.ProvideMongoClient().(*mongo.Client)
	if !ok {
		logger.Fatal("Failed to connect to MongoDB")
	}

	ctx := getCancellableContext()

	if err := db.InitCoreDB(ctx, mongoClient); err != nil {
		logger.Fatal("Failed to ensure core indexes", zap.Error(err))
	}

	store := db.ProvideMongoStore(mongoClient)
	timeout := ccfg.CallTimeout()

	batchCache := cache.NewRedisBatchCache(cache.ProvideRedisClient(ccfg.RedisAddr), ccfg.BatchCacheTTL())
	batch := tutor.NewBatchGenerator(claude, ccfg.GenerationModel, store, batchCache, timeout)

	embedder := retrieval.ProvideOllamaEmbedder(ollamaClient)
	searcher := retrieval.NewSearchStep(mongoClient, embedder)

	classifier := tutor.NewIntentClassifier(claude, ccfg.ClassifierModel, timeout)
	evaluator := tutor.NewAnswerEvaluator(claude, ccfg.GenerationModel, timeout)
	answerer := tutor.NewRetrievalAnswerer(claude, ccfg.GenerationModel, searcher, timeout, ccfg.TurnWindow())
	summarizer := tutor.NewInsightSynthesizer(claude, ccfg.GenerationModel, timeout)

	tc, err := temporalClient.Dial(temporalClient.Options{HostPort: ccfg.TemporalHostPort})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer tc.Close()

	trigger := workers.NewTemporalInsightTrigger(tc, ccfg.TemporalTaskQue)
	orch := tutor.NewOrchestrator(store, deriver, batch, classifier, evaluator, answerer,
		summarizer, trigger, ccfg.Questions(), ccfg.TurnWindow())

	w := workers.NewWorker(tc, ccfg.TemporalTaskQue, activities.ProvideActivities(orch, batch))
	go func() {
		if err := w.Run(nil); err != nil {
			logger.Error("Temporal worker stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ccfg.HTTPPort,
		Handler:           services.ProvideTutorService(orch).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		w.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving tutoring engine", zap.String("addr", ccfg.HTTPPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
