package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"

	"github.com/relaydesk/discord-relay/internal/actor"
	"github.com/relaydesk/discord-relay/internal/api"
	"github.com/relaydesk/discord-relay/internal/credstore"
	"github.com/relaydesk/discord-relay/internal/cursor"
	"github.com/relaydesk/discord-relay/internal/discord"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	dynamoTable := getenv("DYNAMODB_TABLE", "discord-tenants")
	dynamoEndpoint := os.Getenv("DYNAMODB_ENDPOINT")
	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	publicBaseURL := getenv("PUBLIC_BASE_URL", "http://localhost:8080")
	port := getenv("PORT", "8080")
	pollIntervalMS, _ := strconv.Atoi(getenv("POLL_INTERVAL_MS", "2000"))
	idleAfterMin, _ := strconv.Atoi(getenv("ACTOR_IDLE_MINUTES", "30"))
	localMode := os.Getenv("LOCAL_MODE") == "true" || dynamoEndpoint != ""

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// AWS DynamoDB
	var awsOptFns []func(*config.LoadOptions) error
	if localMode {
		// Use static credentials for local DynamoDB
		awsOptFns = append(awsOptFns,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				getenv("AWS_ACCESS_KEY_ID", "test"),
				getenv("AWS_SECRET_ACCESS_KEY", "test"),
				"",
			)),
		)
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, awsOptFns...)
	if err != nil {
		slog.Error("load AWS config", "err", err)
		os.Exit(1)
	}
	var dynamoOpts []func(*dynamodb.Options)
	if dynamoEndpoint != "" {
		dynamoOpts = append(dynamoOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = &dynamoEndpoint
		})
	}
	db := dynamodb.NewFromConfig(awsCfg, dynamoOpts...)

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	upstream := discord.New()
	actors := actor.NewRegistry(actor.Deps{
		Store:         credstore.New(db, dynamoTable),
		Cursors:       cursor.New(rdb),
		Upstream:      upstream,
		PublicBaseURL: publicBaseURL,
		PollInterval:  time.Duration(pollIntervalMS) * time.Millisecond,
	})

	go actors.RunJanitor(ctx, time.Duration(idleAfterMin)*time.Minute)

	handler := api.New(actors, upstream)
	srv := &http.Server{Addr: ":" + port, Handler: handler.Router()}

	go func() {
		slog.Info("relay listening", "port", port, "table", dynamoTable)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("relay error", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	actors.Shutdown()
	rdb.Close()
}
