package repository

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The documents travel through JSON, so the entity structs' wire tags
// define the document field names.

func userToDocument(user entities.User) (remote.Document, error) {
	return toDocument(user)
}

func bookToDocument(book entities.Book) (remote.Document, error) {
	return toDocument(book)
}

func documentToUser(doc remote.Document) (entities.User, error) {
	var user entities.User
	err := fromDocument(doc, &user)
	return user, err
}

func documentToBook(doc remote.Document) (entities.Book, error) {
	var book entities.Book
	err := fromDocument(doc, &book)
	return book, err
}

func toDocument(v any) (remote.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc remote.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc remote.Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
