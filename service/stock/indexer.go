package stock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	syncEntity "stocksync.GO/model/entity/sync"
)

// AuditIndexer mirrors audit records into Elasticsearch so operators can
// search cycles across jobs. Purely advisory: indexing failures are logged
// and dropped.
type AuditIndexer struct {
	client *elasticsearch.Client
	index  string
	log    *logrus.Logger
}

// NewAuditIndexer builds an indexer from ELASTICSEARCH_HOST. Returns nil
// when no index name is configured.
func NewAuditIndexer(index string, log *logrus.Logger) *AuditIndexer {
	if index == "" {
		return nil
	}
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		host = "http://localhost:9200"
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{host},
	})
	if err != nil {
		log.Warnf("elasticsearch not available, audit indexing disabled: %v", err)
		return nil
	}
	return &AuditIndexer{client: client, index: index, log: log}
}

// Index writes one audit record document keyed by run id.
func (ix *AuditIndexer) Index(rec *syncEntity.AuditRecord) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return
	}
	res, err := ix.client.Index(
		ix.index,
		bytes.NewReader(doc),
		ix.client.Index.WithDocumentID(rec.RunID),
	)
	if err != nil {
		ix.log.Warnf("audit index failed (ignored): %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		ix.log.Warnf("audit index failed (ignored): %s", fmt.Sprint(res.StatusCode))
	}
}
