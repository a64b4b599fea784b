package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const listReportsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>reports-bucket</Name>
  <Prefix>reports/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>reports/2025-01-01/gstr1-a.csv</Key><Size>120</Size></Contents>
  <Contents><Key>reports/2025-03-31/gstr3b-b.csv</Key><Size>140</Size></Contents>
</ListBucketResult>`

// newFakeR2 serves just enough of the S3 API for List and Delete.
func newFakeR2(t *testing.T) (*R2Store, func() []string) {
	t.Helper()

	var (
		mu      sync.Mutex
		deleted []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
			if got := r.URL.Query().Get("prefix"); got != "reports/" {
				http.Error(w, "unexpected prefix "+got, http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(listReportsXML))
		case r.Method == http.MethodDelete:
			mu.Lock()
			deleted = append(deleted, r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "unsupported", http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "auto",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		HTTPClient:   srv.Client(),
	})
	store := newR2Store(client, "reports-bucket", "https://pub.example.r2.dev/")

	return store, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), deleted...)
	}
}

func TestR2Store_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store, deleted := newFakeR2(t)

	keys, err := store.List(ctx, "reports/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)
	want := []string{"reports/2025-01-01/gstr1-a.csv", "reports/2025-03-31/gstr3b-b.csv"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	if err := store.Delete(ctx, want[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := deleted()
	if len(got) != 1 || got[0] != "/reports-bucket/"+want[0] {
		t.Errorf("deleted = %v", got)
	}
}

func TestR2Store_URL(t *testing.T) {
	store := newR2Store(nil, "reports-bucket", "https://pub.example.r2.dev/")
	if got := store.URL("/reports/2025-03-31/x.csv"); got != "https://pub.example.r2.dev/reports/2025-03-31/x.csv" {
		t.Errorf("URL = %q", got)
	}
}
