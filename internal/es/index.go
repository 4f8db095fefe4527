package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/inventario/internal/models"
)

const ProductIndex = "productos"

// Indexer keeps the product search index in sync with the catalog.
// A nil Indexer (or one without a client) is a no-op.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIndexer(client *elasticsearch.Client) *Indexer {
	if client == nil {
		return nil
	}
	return &Indexer{ES: client, Index: ProductIndex}
}

func (ix *Indexer) IndexProducto(ctx context.Context, p *models.Producto) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return err
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index producto %d: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteProducto(ctx context.Context, id uint) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	res, err := ix.ES.Delete(
		ix.Index,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete producto %d from index: %s", id, res.Status())
	}
	return nil
}
