package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/guardian/secure-contact/internal/pgplisting"
)

// listingConfig is read from ~/.gu/secure-contact.json on developer machines.
type listingConfig struct {
	BucketName string `json:"BUCKET_NAME"`
	AWSProfile string `json:"AWS_PROFILE"`
}

func loadListingConfig() (listingConfig, error) {
	var cfg listingConfig
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}
	path := filepath.Join(home, ".gu", "secure-contact.json")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.BucketName == "" {
		return cfg, fmt.Errorf("%s: BUCKET_NAME is empty", path)
	}
	return cfg, nil
}

func main() {
	ctx := context.Background()

	cfg, err := loadListingConfig()
	if err != nil {
		log.Fatal(err)
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatal(err)
	}

	store := &pgplisting.S3Store{API: s3.NewFromConfig(awsCfg), Bucket: cfg.BucketName}
	entries, err := pgplisting.FetchEntries(ctx, store)
	if err != nil {
		log.Fatal(err)
	}

	groups := pgplisting.GroupByInitial(entries)
	initials := make([]string, 0, len(groups))
	for initial := range groups {
		initials = append(initials, initial)
	}
	sort.Strings(initials)

	for _, initial := range initials {
		fmt.Println(initial)
		for _, e := range groups[initial] {
			fmt.Printf("  %s\t%s\n", e.Name, string(e.Fingerprint))
		}
	}
}
