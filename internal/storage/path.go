// Package storage resolves input and output locations and clears output
// destinations on local disk, S3, GCS and Azure Blob Storage.
package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// schemeAliases maps Hadoop-style and alternate schemes to the ones DuckDB
// understands.
var schemeAliases = map[string]string{
	"s3a://":   "s3://",
	"s3n://":   "s3://",
	"gcs://":   "gs://",
	"azure://": "az://",
}

// NormalizeURI rewrites scheme aliases such as s3a:// to their canonical form.
// Local paths are returned unchanged.
func NormalizeURI(uri string) string {
	lower := strings.ToLower(uri)
	for alias, canonical := range schemeAliases {
		if strings.HasPrefix(lower, alias) {
			return canonical + uri[len(alias):]
		}
	}
	return uri
}

// Join appends elem to base with exactly one separating slash. It does not
// clean the path, so glob characters and URI schemes survive.
func Join(base string, elem ...string) string {
	out := base
	for _, e := range elem {
		if e == "" {
			continue
		}
		if out == "" {
			out = e
			continue
		}
		out = strings.TrimRight(out, "/") + "/" + strings.TrimLeft(e, "/")
	}
	return out
}

// ParseS3Path splits "s3://bucket/prefix" into bucket and key prefix.
// The prefix may be empty.
func ParseS3Path(uri string) (bucket, key string, err error) {
	return parseBucketURI(NormalizeURI(uri), "s3")
}

// ParseGCSPath splits "gs://bucket/prefix" into bucket and key prefix.
func ParseGCSPath(uri string) (bucket, key string, err error) {
	return parseBucketURI(NormalizeURI(uri), "gs")
}

// ParseAzurePath splits an Azure URI into container and blob prefix.
//
// Supported formats:
//
//	az://container/prefix
//	abfss://container@account.dfs.core.windows.net/prefix
func ParseAzurePath(uri string) (container, key string, err error) {
	u, err := url.Parse(NormalizeURI(uri))
	if err != nil {
		return "", "", fmt.Errorf("parse Azure path %q: %w", uri, err)
	}
	switch u.Scheme {
	case "az":
		container = u.Host
	case "abfss":
		container = u.User.Username()
	default:
		return "", "", fmt.Errorf("expected az:// or abfss:// scheme, got %q in %q", u.Scheme, uri)
	}
	if container == "" {
		return "", "", fmt.Errorf("empty container in Azure path %q", uri)
	}
	return container, strings.TrimPrefix(u.Path, "/"), nil
}

func parseBucketURI(uri, scheme string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse %s path %q: %w", scheme, uri, err)
	}
	if u.Scheme != scheme {
		return "", "", fmt.Errorf("expected %s:// scheme, got %q in %q", scheme, u.Scheme, uri)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("empty bucket in %q", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
