package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"policyminer/common"
	"policyminer/config"
	"policyminer/extraction"
	"policyminer/gmail"
	"policyminer/kafka"
	"policyminer/pipeline"
	"policyminer/policy"
	"policyminer/types"
)

// RunOnce executes a single end-to-end cycle: search the mailbox, decompose
// messages and extract attachment text, deduplicate, run structured
// extraction, then optionally archive to S3 and publish to Kafka.
func RunOnce(ctx context.Context) ([]types.ExtractionRecord, error) {
	log.SetOutput(os.Stderr)
	log.Println("=== PolicyMiner Pipeline ===")

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	provider, err := gmail.NewServiceFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail provider: %w", err)
	}

	extractor, err := policy.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extraction client: %w", err)
	}

	fetcher := gmail.NewFetcher(provider, extraction.NewRegistry())
	return Run(ctx, fetcher, extractor)
}

// Run executes one pipeline over preconstructed collaborators. The
// aggregator is created here, so all dedup state is scoped to this run and
// discarded with it.
func Run(ctx context.Context, fetcher *gmail.Fetcher, extractor policy.Extractor) ([]types.ExtractionRecord, error) {
	query := getEnvOrDefault("SEARCH_QUERY", config.SearchQuery)
	maxResults := maxResultsFromEnv()

	log.Printf("Searching mailbox: %q (max %d)", query, maxResults)
	batch, err := fetcher.FetchMessages(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	if batch.Empty() {
		log.Println("=== Pipeline Run Complete (no matches) ===")
		return []types.ExtractionRecord{}, nil
	}
	log.Printf("Fetched %d attachment mail(s), %d normal mail(s)",
		len(batch.AttachmentMails), len(batch.NormalMails))

	aggregator := pipeline.NewAggregator(extractor)
	aggregator.Ingest(ctx, batch)
	records := aggregator.Records()
	log.Printf("Pipeline produced %d record(s)", len(records))

	archiveRecords(ctx, records)
	publishRecords(records)

	log.Println("=== Pipeline Run Complete ===")
	return records, nil
}

// archiveRecords uploads the completed record collection to S3 when
// configured. Archive failures are logged and never fail the run.
func archiveRecords(ctx context.Context, records []types.ExtractionRecord) {
	s3Client, bucket, prefix := initializeS3()
	if s3Client == nil || bucket == "" {
		log.Printf("S3 not configured; skipping archive")
		return
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to marshal records for archive: %v", err)
		return
	}

	key := prefix + "runs/" + time.Now().UTC().Format("20060102T150405Z") + ".json"
	uctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s3Client.Put(uctx, bucket, key, bytes.NewReader(payload), "application/json"); err != nil {
		log.Printf("Warning: S3 archive failed for %s: %v", key, err)
		return
	}
	log.Printf("Archived %d record(s) to s3://%s/%s", len(records), bucket, key)
}

// publishRecords sends each record to Kafka when brokers are configured.
// Publish failures are logged and never fail the run.
func publishRecords(records []types.ExtractionRecord) {
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		log.Printf("Kafka not configured; skipping publish")
		return
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   getEnvOrDefault("KAFKA_TOPIC", config.KafkaTopic),
	})
	if err != nil {
		log.Printf("Warning: failed to init Kafka producer: %v (publishing disabled)", err)
		return
	}
	defer producer.Close()

	published := 0
	for _, rec := range records {
		if err := producer.PublishRecord(rec); err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		published++
	}
	log.Printf("Kafka publish complete: %d item(s)", published)
}

// initializeS3 returns an S3 client and target bucket/prefix if configured via env.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX, S3_USE_PATH_STYLE=true
func initializeS3() (*common.S3, string, string) {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil, "", ""
	}

	cfg := common.S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}
	client, err := common.NewS3(context.Background(), cfg)
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archiving disabled)", err)
		return nil, "", ""
	}

	prefix := strings.TrimSpace(os.Getenv("S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return client, bucket, prefix
}

func maxResultsFromEnv() int64 {
	if v := os.Getenv("MAX_SEARCH_RESULTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return config.MaxSearchResults
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
