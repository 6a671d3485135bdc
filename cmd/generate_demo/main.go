// Command generate_demo creates a demo database with sample accounts and
// public domain book listings.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/azeemi/sharebook/internal/entities"
	"github.com/azeemi/sharebook/internal/remote"
	"github.com/azeemi/sharebook/internal/remote/localstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultDemoDatabasePath = "./demo.db"

type demoAccount struct {
	email    string
	password string
	profile  entities.User
	books    []entities.Book
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	store, err := localstore.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer store.Close()

	auth := store.Auth(0)
	docs := store.Documents()

	for _, account := range demoAccounts() {
		user, err := auth.SignUp(account.email, account.password)
		if err != nil {
			log.Printf("Failed to create account %s: %v", account.email, err)
			continue
		}

		profile := account.profile
		profile.UID = user.UID
		profile.Email = account.email
		now := entities.NowMillis()
		profile.CreatedAt = now
		profile.UpdatedAt = now
		if err := writeDocument(docs, remote.CollectionUsers, user.UID, profile); err != nil {
			log.Printf("Failed to save profile for %s: %v", account.email, err)
			continue
		}
		log.Printf("Created account: %s (%d books)", account.email, len(account.books))

		for i, book := range account.books {
			book.ID = demoBookID(user.UID, i)
			book.OwnerUID = user.UID
			book.IsAvailable = true
			book.CreatedAt = now
			book.UpdatedAt = now
			if err := writeDocument(docs, remote.CollectionBooks, book.ID, book); err != nil {
				log.Printf("Failed to save book %s: %v", book.Title, err)
				continue
			}
			log.Printf("Saved: %s by %s", book.Title, book.Author)
		}
	}

	log.Println("Demo database generated successfully!")
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{
			email:    "amina@example.com",
			password: "demo-password",
			profile: entities.User{
				Name:     "Amina Khan",
				Location: "Karachi",
				Bio:      "Collecting more books than I can read.",
			},
			books: []entities.Book{
				{
					Title:       "Pride and Prejudice",
					Author:      "Jane Austen",
					Description: "A sharp comedy of manners following Elizabeth Bennet and the proud Mr. Darcy.",
					ISBN:        "9780141439518",
					Genre:       "Fiction",
				},
				{
					Title:       "Frankenstein",
					Author:      "Mary Shelley",
					Description: "Victor Frankenstein brings a creature to life and cannot live with what he has made.",
					ISBN:        "9780141439471",
					Genre:       "Horror",
				},
				{
					Title:       "The Origin of Species",
					Author:      "Charles Darwin",
					Description: "The foundational text of evolutionary biology.",
					ISBN:        "9780451529060",
					Genre:       "Science",
				},
			},
		},
		{
			email:    "bilal@example.com",
			password: "demo-password",
			profile: entities.User{
				Name:     "Bilal Ahmed",
				Location: "Lahore",
				Bio:      "Happy to lend anything on the shelf.",
			},
			books: []entities.Book{
				{
					Title:       "Meditations",
					Author:      "Marcus Aurelius",
					Description: "Private notes of a Roman emperor on how to live.",
					ISBN:        "9780140449334",
					Genre:       "Philosophy",
				},
				{
					Title:       "The Adventures of Sherlock Holmes",
					Author:      "Arthur Conan Doyle",
					Description: "Twelve cases from the consulting detective of Baker Street.",
					ISBN:        "9780199536955",
					Genre:       "Mystery",
				},
			},
		},
	}
}

func demoBookID(ownerUID string, index int) string {
	return ownerUID + "-book-" + string(rune('a'+index))
}

func writeDocument(docs remote.DocumentStore, collection, id string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var doc remote.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return docs.Set(collection, id, doc)
}
