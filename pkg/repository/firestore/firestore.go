package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultWebhookCollection = "webhooks"
	DefaultChatCollection    = "chats"
)

// Repository reads registrations from Firestore. A webhook document is keyed
// by its webhook URL and a chat document by its chat ID.
type Repository struct {
	client            *firestore.Client
	webhookCollection string
	chatCollection    string
}

var _ interfaces.Repository = (*Repository)(nil)

type config struct {
	databaseID        string
	webhookCollection string
	chatCollection    string
	clientOptions     []option.ClientOption
}

// Option is a functional option for Repository configuration
type Option func(*config)

// WithDatabaseID selects a named Firestore database instead of "(default)"
func WithDatabaseID(databaseID string) Option {
	return func(c *config) {
		c.databaseID = databaseID
	}
}

// WithCollections overrides the webhook and chat collection names
func WithCollections(webhook, chat string) Option {
	return func(c *config) {
		if webhook != "" {
			c.webhookCollection = webhook
		}
		if chat != "" {
			c.chatCollection = chat
		}
	}
}

// WithClientOptions passes options to the Firestore client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *config) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

// New connects to Firestore in projectID
func New(ctx context.Context, projectID string, opts ...Option) (*Repository, error) {
	cfg := &config{
		databaseID:        firestore.DefaultDatabaseID,
		webhookCollection: DefaultWebhookCollection,
		chatCollection:    DefaultChatCollection,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, cfg.databaseID, cfg.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", cfg.databaseID),
		)
	}

	return &Repository{
		client:            client,
		webhookCollection: cfg.webhookCollection,
		chatCollection:    cfg.chatCollection,
	}, nil
}

// Close releases the Firestore client
func (x *Repository) Close() error {
	return x.client.Close()
}

func (x *Repository) FindWebhookByURL(ctx context.Context, webhookURL types.WebhookURL) (*model.Webhook, error) {
	var webhook model.Webhook
	found, err := x.get(ctx, x.webhookCollection, webhookURL.String(), &webhook)
	if err != nil || !found {
		return nil, err
	}
	if webhook.WebhookURL == "" {
		webhook.WebhookURL = webhookURL
	}
	return &webhook, nil
}

func (x *Repository) FindChatByID(ctx context.Context, chatID types.ChatID) (*model.Chat, error) {
	var chat model.Chat
	found, err := x.get(ctx, x.chatCollection, chatID.String(), &chat)
	if err != nil || !found {
		return nil, err
	}
	if chat.ID == "" {
		chat.ID = chatID
	}
	return &chat, nil
}

func (x *Repository) get(ctx context.Context, collection, docID string, dst any) (bool, error) {
	// IDs Firestore would reject can never have been registered
	if docID == "" || !validDocID(docID) {
		return false, nil
	}

	doc, err := x.client.Collection(collection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get firestore document",
			goerr.V("collection", collection),
			goerr.V("doc_id", docID),
		)
	}

	if err := doc.DataTo(dst); err != nil {
		return false, goerr.Wrap(err, "failed to decode firestore document",
			goerr.V("collection", collection),
			goerr.V("doc_id", docID),
		)
	}
	return true, nil
}

func validDocID(docID string) bool {
	return docID != "." && docID != ".." && !strings.Contains(docID, "/")
}
