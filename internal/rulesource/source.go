// Package rulesource loads and publishes YAML rule tables from the local
// filesystem or S3.
package rulesource

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"agri-backend/internal/recommend"
	"agri-backend/internal/shared/storage/object"
	"agri-backend/internal/shared/storage/object/local"
	s3store "agri-backend/internal/shared/storage/object/s3"
)

const contentType = "application/yaml"

// Location is a parsed rule table reference: a filesystem path, or an S3
// bucket and key for s3:// URIs.
type Location struct {
	Bucket string
	Key    string
}

// Remote reports whether the table lives in S3.
func (l Location) Remote() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.Remote() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// Parse accepts a plain path, file:// URI or s3://bucket/key URI.
func Parse(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Location{}, fmt.Errorf("empty rule table location")
	case strings.HasPrefix(raw, "s3://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Location{}, fmt.Errorf("parse %q: %w", raw, err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("s3 location %q needs a bucket and key", raw)
		}
		return Location{Bucket: u.Host, Key: key}, nil
	default:
		abs, err := filepath.Abs(strings.TrimPrefix(raw, "file://"))
		if err != nil {
			return Location{}, fmt.Errorf("resolve %q: %w", raw, err)
		}
		return Location{Key: abs}, nil
	}
}

// newS3 is swapped in tests.
var newS3 = func(ctx context.Context, region, bucket string) (object.Store, error) {
	return s3store.New(ctx, region, bucket, "", "")
}

func storeFor(ctx context.Context, loc Location, region string) (object.Store, error) {
	if loc.Remote() {
		return newS3(ctx, region, loc.Bucket)
	}
	return local.New(""), nil
}

// Load reads and validates the rule table at raw.
func Load(ctx context.Context, raw, region string) (recommend.Table, error) {
	loc, err := Parse(raw)
	if err != nil {
		return recommend.Table{}, err
	}
	store, err := storeFor(ctx, loc, region)
	if err != nil {
		return recommend.Table{}, err
	}
	rc, err := store.Open(ctx, loc.Key)
	if err != nil {
		return recommend.Table{}, fmt.Errorf("open rule table %s: %w", loc, err)
	}
	defer rc.Close()

	table, err := recommend.LoadTable(rc)
	if err != nil {
		return recommend.Table{}, fmt.Errorf("%s: %w", loc, err)
	}
	return table, nil
}

// LoadEngine builds an engine from raw, or returns the built-in engine when
// raw is empty.
func LoadEngine(ctx context.Context, raw, region string) (*recommend.Engine, error) {
	if strings.TrimSpace(raw) == "" {
		return recommend.Default(), nil
	}
	table, err := Load(ctx, raw, region)
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(table)
}

// Publish validates table and writes it as YAML to raw.
func Publish(ctx context.Context, raw, region string, table recommend.Table) (int64, error) {
	if err := table.Validate(); err != nil {
		return 0, err
	}
	loc, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := recommend.EncodeTable(&buf, table); err != nil {
		return 0, err
	}
	store, err := storeFor(ctx, loc, region)
	if err != nil {
		return 0, err
	}
	n, err := store.Put(ctx, loc.Key, contentType, &buf)
	if err != nil {
		return 0, fmt.Errorf("publish rule table %s: %w", loc, err)
	}
	return n, nil
}
