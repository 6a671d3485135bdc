package localstore

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/azeemi/sharebook/internal/remote"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Documents returns the document-store view of the store.
func (s *Store) Documents() remote.DocumentStore {
	return &documentStore{db: s.db}
}

// documentStore implements remote.DocumentStore on the documents table.
// Payloads are stored as JSON text; field queries go through json_extract.
// Query results are ordered by creation time, newest first.
type documentStore struct {
	db *gorm.DB
}

func (d *documentStore) Get(collection, id string) (remote.Document, error) {
	var row documentRow
	err := d.db.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, remote.ErrDocumentNotFound
		}
		return nil, err
	}
	return decodeDocument(row.Data)
}

func (d *documentStore) List(collection string) ([]remote.Document, error) {
	var rows []documentRow
	err := d.db.Where("collection = ?", collection).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func (d *documentStore) Set(collection, id string, doc remote.Document) error {
	data, err := json.MarshalToString(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	row := documentRow{Collection: collection, DocID: id, Data: data}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

func (d *documentStore) Update(collection, id string, fields map[string]any) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return remote.ErrDocumentNotFound
			}
			return err
		}

		doc, err := decodeDocument(row.Data)
		if err != nil {
			return err
		}
		for k, v := range fields {
			doc[k] = v
		}

		data, err := json.MarshalToString(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}

		return tx.Model(&documentRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", data).Error
	})
}

func (d *documentStore) Delete(collection, id string) error {
	return d.db.Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
}

func (d *documentStore) QueryEqual(collection, field string, value any) ([]remote.Document, error) {
	var rows []documentRow
	err := d.db.Where("collection = ? AND json_extract(data, ?) = ?", collection, "$."+field, value).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func (d *documentStore) QueryRange(collection, field, start, end string) ([]remote.Document, error) {
	var rows []documentRow
	err := d.db.Where("collection = ? AND json_extract(data, ?) >= ? AND json_extract(data, ?) <= ?",
		collection, "$."+field, start, "$."+field, end).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func decodeDocument(data string) (remote.Document, error) {
	var doc remote.Document
	if err := json.UnmarshalFromString(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func decodeRows(rows []documentRow) ([]remote.Document, error) {
	docs := make([]remote.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeDocument(row.Data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
