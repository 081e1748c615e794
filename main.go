package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/handler"
	"github.com/redis/go-redis/v9"

	"messageboard/internal/graph"
	"messageboard/internal/ratelimit"
	"messageboard/internal/repository"
	"messageboard/internal/service"
)

const (
	postLimit  = 10
	postWindow = time.Hour
)

func main() {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	redisAddr := getEnv("REDIS_ADDR", "")
	redisPassword := getEnv("REDIS_PASSWORD", "")

	connStr := "host=" + dbHost +
		" port=" + dbPort +
		" user=" + dbUser +
		" password=" + dbPassword +
		" dbname=" + dbName +
		" sslmode=disable"
	repo, err := repository.NewPostgresRepo(connStr)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	var cache service.PostedCache
	if redisAddr != "" {
		cacheClient := initRedis(redisAddr, redisPassword)
		cache = &RedisCache{client: cacheClient}
		log.Println("Connected to Redis")
	}

	limiter := ratelimit.New(postLimit, postWindow)
	limiter.StartJanitor(context.Background())

	svc := service.NewBoardService(repo, repo, limiter, cache)
	schema, err := graph.NewSchema(svc)
	if err != nil {
		log.Fatalf("Failed to build GraphQL schema: %v", err)
	}

	gqlHandler := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	})

	r := gin.Default()
	r.GET("/", gin.WrapH(gqlHandler))
	r.POST("/", gin.WrapH(gqlHandler))

	port := getEnv("PORT", "4000")
	log.Printf("Server starting on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func getEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// RedisCache keeps a write-through record of posted messages keyed by id.
type RedisCache struct {
	client *redis.Client
}

func (rc *RedisCache) StorePostedMessage(id string, creationDate string) error {
	ctx := context.Background()
	return rc.client.Set(ctx, "msg:"+id, creationDate, 0).Err()
}

func initRedis(addr string, password string) *redis.Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	}
	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	return client
}
