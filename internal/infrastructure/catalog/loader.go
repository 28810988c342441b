package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// maxCatalogSize bounds catalog documents read from disk or S3
const maxCatalogSize = 32 << 20

//go:embed seed.json
var seedCatalog []byte

// Seed returns the built-in sample catalog
func Seed() ([]domain.Recipe, error) {
	return Decode(bytes.NewReader(seedCatalog))
}

// Decode reads a catalog document: either a JSON array of recipes or an
// object with a "recipes" array
func Decode(r io.Reader) ([]domain.Recipe, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog document is empty")
	}

	if data[0] == '{' {
		var wrapped struct {
			Recipes []domain.Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return wrapped.Recipes, nil
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return recipes, nil
}

// LoadFile reads a catalog document from disk
func LoadFile(path string) ([]domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// S3Config locates a catalog object in S3 or an S3-compatible store
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Key             string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Source fetches catalog documents from an S3 bucket
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source builds an S3 client. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies. A custom
// endpoint enables path-style addressing for S3-compatible stores.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("S3 catalog configuration incomplete: bucket and key are required")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Load downloads and decodes the catalog object
func (s *S3Source) Load(ctx context.Context) ([]domain.Recipe, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	return Decode(out.Body)
}
