// Package repository picks the storage backend once at startup and hands the chosen
// repositories to the services.
package repository

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"marathonhub/internal/domain"
	"marathonhub/internal/repository/memory"
	"marathonhub/internal/repository/mongodb"
)

// Backend identifies which storage implementation is serving the process.
type Backend int

const (
	// Durable is the MongoDB backend.
	Durable Backend = iota + 1
	// Fallback is the in-process backend used when MongoDB was unreachable at startup.
	Fallback
)

func (b Backend) String() string {
	switch b {
	case Durable:
		return "mongodb"
	case Fallback:
		return "memory"
	}
	return "unknown"
}

// Options configures the durable backend.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Repositories is the set of repositories backed by one Backend.
type Repositories struct {
	Backend       Backend
	Users         domain.UserRepository
	Marathons     domain.MarathonRepository
	Registrations domain.RegistrationRepository

	client *mongo.Client
}

// NewDurable returns repositories backed by db.
func NewDurable(client *mongo.Client, db *mongo.Database) *Repositories {
	return &Repositories{
		Backend:       Durable,
		Users:         mongodb.NewUserRepository(db),
		Marathons:     mongodb.NewMarathonRepository(db),
		Registrations: mongodb.NewRegistrationRepository(db),
		client:        client,
	}
}

// NewFallback returns repositories backed by a fresh in-memory store.
func NewFallback() *Repositories {
	store := memory.New()
	return &Repositories{
		Backend:       Fallback,
		Users:         memory.NewUserRepository(store),
		Marathons:     memory.NewMarathonRepository(store),
		Registrations: memory.NewRegistrationRepository(store),
	}
}

// Open connects to MongoDB once. If it cannot, the failure is logged and the in-memory
// backend is returned for the rest of the process; there is no reconnect.
func Open(ctx context.Context, opts Options, logger *slog.Logger) *Repositories {
	client, db, err := mongodb.Connect(ctx, opts.URI, opts.Database, opts.ConnectTimeout)
	if err != nil {
		logger.Warn("MongoDB not available, using in-memory storage", "err", err)
		return NewFallback()
	}
	idxCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := mongodb.EnsureIndexes(idxCtx, db); err != nil {
		logger.Warn("MongoDB indexes could not be created, using in-memory storage", "database", opts.Database, "err", err)
		_ = client.Disconnect(context.Background())
		return NewFallback()
	}
	logger.Info("connected to MongoDB", "database", opts.Database)
	return NewDurable(client, db)
}

// Close releases the MongoDB client, if any.
func (r *Repositories) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
