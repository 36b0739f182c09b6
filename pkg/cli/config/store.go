package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/infra/gcs"
	"github.com/m-mizutani/pushgram/pkg/repository/firestore"
	"github.com/m-mizutani/pushgram/pkg/repository/memory"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Store holds configuration of the registration store
type Store struct {
	Backend      string
	RegistryFile string

	FirestoreProjectID         string
	FirestoreDatabaseID        string
	FirestoreWebhookCollection string
	FirestoreChatCollection    string

	// Credentials is a service account key file used for Firestore and Cloud Storage
	Credentials string
}

// Flags returns CLI flags for store configuration
func (c *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Registration store backend (memory, firestore)",
			Value:       StoreMemory,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("PUSHGRAM_STORE"),
		},
		&cli.StringFlag{
			Name:        "registry-file",
			Usage:       "TOML registry for the memory store (local path or gs://bucket/object)",
			Destination: &c.RegistryFile,
			Sources:     cli.EnvVars("PUSHGRAM_REGISTRY_FILE"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project of the Firestore database",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("PUSHGRAM_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("PUSHGRAM_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-webhook-collection",
			Usage:       "Firestore collection of webhook registrations",
			Value:       firestore.DefaultWebhookCollection,
			Destination: &c.FirestoreWebhookCollection,
			Sources:     cli.EnvVars("PUSHGRAM_FIRESTORE_WEBHOOK_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "firestore-chat-collection",
			Usage:       "Firestore collection of chat registrations",
			Value:       firestore.DefaultChatCollection,
			Destination: &c.FirestoreChatCollection,
			Sources:     cli.EnvVars("PUSHGRAM_FIRESTORE_CHAT_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Service account key file for Firestore and Cloud Storage (default: ADC)",
			Destination: &c.Credentials,
			Sources:     cli.EnvVars("PUSHGRAM_GOOGLE_CREDENTIALS"),
		},
	}
}

func (c *Store) clientOptions() []option.ClientOption {
	if c.Credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.Credentials)}
}

// Configure opens the configured store. The returned function releases it.
func (c *Store) Configure(ctx context.Context) (interfaces.Repository, func(), error) {
	switch c.Backend {
	case StoreMemory, "":
		repo, err := c.loadRegistry(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case StoreFirestore:
		if c.FirestoreProjectID == "" {
			return nil, nil, goerr.New("firestore-project-id is required for firestore store")
		}
		repo, err := firestore.New(ctx, c.FirestoreProjectID,
			firestore.WithDatabaseID(c.FirestoreDatabaseID),
			firestore.WithCollections(c.FirestoreWebhookCollection, c.FirestoreChatCollection),
			firestore.WithClientOptions(c.clientOptions()...),
		)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown store backend", goerr.V("store", c.Backend))
	}
}

func (c *Store) loadRegistry(ctx context.Context) (*memory.Repository, error) {
	if c.RegistryFile == "" {
		return memory.New(), nil
	}

	var data []byte
	if gcs.IsURI(c.RegistryFile) {
		raw, err := gcs.ReadObject(ctx, c.RegistryFile, c.clientOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to download registry file")
		}
		data = raw
	} else {
		raw, err := os.ReadFile(c.RegistryFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read registry file", goerr.V("path", c.RegistryFile))
		}
		data = raw
	}

	repo, err := memory.ParseRegistry(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load registry file", goerr.V("path", c.RegistryFile))
	}
	return repo, nil
}
